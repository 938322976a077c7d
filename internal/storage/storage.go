package storage

import (
	"context"
	"fmt"
)

// UploadInput representa uma operação de upload simples.
type UploadInput struct {
	Key         string
	Body        []byte
	ContentType string
}

// UploadResult descreve o blob persistido.
type UploadResult struct {
	URL    string
	ETag   string
	Status int
}

// Uploader define comportamento básico para armazenar blobs.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// StatusError indica que o storage respondeu, mas com status diferente do esperado.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage: upload falhou (%d): %s", e.Code, e.Body)
}
