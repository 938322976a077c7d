package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ahmedbana/upload-to-azure/internal/config"
	internalhttp "github.com/ahmedbana/upload-to-azure/internal/http"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expõe os nós de upload via HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.Port = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "porta HTTP (sobrepõe PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Blob.SASToken == "" {
		log.Warn().Msg("BLOB_SAS_TOKEN vazio: uploads dependem do sas_token de cada requisição")
	}
	if !cfg.AuthEnabled() {
		log.Warn().Msg("JWT_SECRET vazio: execução de nós sem autenticação")
	}

	handler := internalhttp.NewRouter(cfg, newRegistry(cfg), log.Logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("blobnode ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case <-ctx.Done():
		log.Info().Msg("contexto cancelado, encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.UploadTimeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
