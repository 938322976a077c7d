package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ahmedbana/upload-to-azure/internal/config"
	"github.com/ahmedbana/upload-to-azure/internal/node"
	"github.com/ahmedbana/upload-to-azure/internal/uploader"
)

// newRegistry monta os dois nós sobre um único Service configurado pelo ambiente.
func newRegistry(cfg *config.Config) *node.Registry {
	svc := uploader.NewService(uploader.Options{
		HTTPClient:  &http.Client{Timeout: cfg.UploadTimeout},
		StopOnError: cfg.StopOnError,
		Logger:      log.With().Str("component", "uploader").Logger(),
	})

	defaults := node.Defaults{
		BaseURL:    cfg.Blob.BaseURL,
		SASToken:   cfg.Blob.SASToken,
		WebhookURL: cfg.WebhookURL,
	}

	return node.NewRegistry(
		node.NewSingleNode(svc, defaults),
		node.NewBatchNode(svc, defaults),
	)
}
