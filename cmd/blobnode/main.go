package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ahmedbana/upload-to-azure/internal/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config inválida")
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		log.Error().Err(err).Msg("blobnode encerrado com erro")
		os.Exit(1)
	}
}
