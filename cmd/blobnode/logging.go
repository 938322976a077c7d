package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func configureLogger(flagLevel, configLevel string) error {
	raw := flagLevel
	if strings.TrimSpace(raw) == "" {
		raw = configLevel
	}

	level, err := parseLogLevel(raw)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("nível de log configurado")
	return nil
}

func parseLogLevel(raw string) (zerolog.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(value)
	default:
		return zerolog.NoLevel, fmt.Errorf("nível de log inválido %q", raw)
	}
}
