package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmedbana/upload-to-azure/internal/auth"
	"github.com/ahmedbana/upload-to-azure/internal/config"
)

func newTokenCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token --subject editor",
		Short: "Gera um bearer token para POST /nodes/{name}/execute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET não configurado")
			}
			if strings.TrimSpace(subject) == "" {
				return errors.New("--subject é obrigatório")
			}
			if ttl <= 0 {
				ttl = cfg.JWTAccessTTL
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, ttl).GenerateAccessToken(subject, scopes)
			if err != nil {
				return fmt.Errorf("gerar token: %w", err)
			}

			out := cmd.OutOrStdout()
			if *jsonOutput {
				return json.NewEncoder(out).Encode(map[string]any{
					"access_token": token,
					"token_type":   "Bearer",
					"expires_in":   int(ttl.Seconds()),
				})
			}
			fmt.Fprintln(out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "identificação de quem usará o token")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeExecute}, "escopos do token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "validade (padrão JWT_ACCESS_TTL)")
	return cmd
}
