package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmedbana/upload-to-azure/internal/util"
)

const (
	headerBlobType   = "x-ms-blob-type"
	blobTypeBlock    = "BlockBlob"
	defaultBlobCType = "image/png"
	maxErrorBody     = 4096
)

// BlobConfig descreve o container de destino e a credencial SAS.
type BlobConfig struct {
	// BaseURL aponta para o "diretório" do container, ex.: https://conta.blob.core.windows.net/output/previews/
	BaseURL string
	// SASToken é anexado literalmente ao fim da URL (inclui o "?").
	SASToken   string
	HTTPClient *http.Client
}

// BlobUploader envia blobs do tipo BlockBlob via PUT autenticado por SAS.
type BlobUploader struct {
	cfg    BlobConfig
	client *http.Client
}

// NewBlobUploader valida a configuração e normaliza a URL base.
func NewBlobUploader(cfg BlobConfig) (*BlobUploader, error) {
	if err := util.ValidateHTTPURL(cfg.BaseURL, "storage: base_url"); err != nil {
		return nil, err
	}
	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	return &BlobUploader{cfg: cfg, client: client}, nil
}

// NormalizeBaseURL garante a barra final.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}

// URLFor concatena base, nome do blob e token sem separadores extras.
func (u *BlobUploader) URLFor(key string) string {
	return u.cfg.BaseURL + key + u.cfg.SASToken
}

// Upload envia o corpo com PUT; apenas 201 Created conta como sucesso.
func (u *BlobUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if strings.TrimSpace(input.Key) == "" {
		return nil, errors.New("storage: nome do blob obrigatório")
	}
	if len(input.Body) == 0 {
		return nil, errors.New("storage: corpo vazio")
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = defaultBlobCType
	}

	targetURL := u.URLFor(input.Key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, targetURL, bytes.NewReader(input.Body))
	if err != nil {
		return nil, fmt.Errorf("storage: montar requisição para %s: %w", redact(targetURL), err)
	}

	req.ContentLength = int64(len(input.Body))
	req.Header.Set(headerBlobType, blobTypeBlock)
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("storage: PUT %s: %w", redact(targetURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return &UploadResult{
		URL:    targetURL,
		ETag:   strings.Trim(resp.Header.Get("ETag"), "\""),
		Status: resp.StatusCode,
	}, nil
}

// redact remove a query (token SAS) antes de a URL ir para logs ou mensagens.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
