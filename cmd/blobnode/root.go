package main

import (
	"github.com/spf13/cobra"

	"github.com/ahmedbana/upload-to-azure/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "blobnode",
		Short:         "Envia imagens do pipeline para o Azure Blob Storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogger(logLevel, cfg.LogLevel)
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "saída em JSON")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn ou error (sobrepõe LOG_LEVEL)")

	cmd.AddCommand(
		newServeCmd(cfg),
		newUploadCmd(cfg, &jsonOutput),
		newTokenCmd(cfg, &jsonOutput),
	)

	return cmd
}

// version é definido no build via -ldflags.
var version = "dev"
