package uploader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/notify"
	"github.com/ahmedbana/upload-to-azure/internal/storage"
)

// Options configura o Service.
type Options struct {
	// HTTPClient é compartilhado entre PUT e webhook.
	HTTPClient *http.Client
	// StopOnError reproduz o comportamento tudo-ou-nada: após a primeira falha
	// inesperada as imagens restantes não são enviadas.
	StopOnError bool
	Namer       Namer
	Logger      zerolog.Logger
}

// Service executa o envio sequencial das imagens.
type Service struct {
	client      *http.Client
	stopOnError bool
	namer       Namer
	logger      zerolog.Logger
}

func NewService(opts Options) *Service {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		client:      client,
		stopOnError: opts.StopOnError,
		namer:       opts.Namer,
		logger:      opts.Logger,
	}
}

// Run processa as imagens em ordem. Nunca devolve erro: cada falha vira um Result,
// e o número de Results é sempre igual ao número de imagens.
func (s *Service) Run(ctx context.Context, req Request) Report {
	images := req.Input.Images()

	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("upload: requisição rejeitada")
		return failAll(len(images), 0, err)
	}

	blob, err := storage.NewBlobUploader(storage.BlobConfig{
		BaseURL:    req.BaseURL,
		SASToken:   req.Credential,
		HTTPClient: s.client,
	})
	if err != nil {
		return failAll(len(images), 0, err)
	}

	var notifier notify.Notifier
	if wh := notify.NewWebhookNotifier(req.WebhookURL, s.client); wh != nil {
		notifier = wh
	}

	return s.run(ctx, req, blob, notifier)
}

func (s *Service) run(ctx context.Context, req Request, up storage.Uploader, notifier notify.Notifier) Report {
	images := req.Input.Images()
	scenes := ParseSceneOrder(req.SceneOrder, len(images))
	report := Report{Results: make([]Result, 0, len(images))}

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("upload: execução cancelada")
			report.Results = append(report.Results, failAll(len(images)-i, i, fmt.Errorf("aborted: %w", err)).Results...)
			break
		}

		res := s.uploadOne(ctx, req, up, notifier, i, img, scenes[i])
		report.Results = append(report.Results, res)

		if s.stopOnError && res.Status == StatusError && i+1 < len(images) {
			abort := fmt.Errorf("aborted after image %d failed", i)
			report.Results = append(report.Results, failAll(len(images)-i-1, i+1, abort).Results...)
			break
		}
	}

	counts := report.Counts()
	s.logger.Info().
		Int("images", len(images)).
		Int("uploaded", counts.Uploaded).
		Int("partial", counts.Partial).
		Int("failed", counts.Failed).
		Msg("upload: lote concluído")
	return report
}

func (s *Service) uploadOne(ctx context.Context, req Request, up storage.Uploader, notifier notify.Notifier, index int, img imaging.Image, scene string) Result {
	res := Result{Index: index}
	logger := s.logger.With().Int("index", index).Logger()

	body, err := imaging.EncodePNG(img)
	if err != nil {
		logger.Error().Err(err).Msg("upload: falha ao codificar imagem")
		res.Status, res.Detail = StatusError, err.Error()
		return res
	}

	if strings.TrimSpace(req.FileName) != "" {
		res.Name = imaging.NormalizeFilename(req.FileName)
	} else {
		res.Name = s.namer.Name(req.GenerationID, index)
	}
	logger = logger.With().Str("blob", res.Name).Logger()

	out, err := up.Upload(ctx, storage.UploadInput{
		Key:         res.Name,
		Body:        body,
		ContentType: imaging.ContentType,
	})
	if err != nil {
		var statusErr *storage.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn().Int("status", statusErr.Code).Msg("upload: storage recusou o blob")
			res.Status, res.Code, res.Detail = StatusUploadFailed, statusErr.Code, statusErr.Body
			return res
		}
		logger.Error().Err(err).Msg("upload: falha no envio")
		res.Status, res.Detail = StatusError, err.Error()
		return res
	}
	res.URL = out.URL
	logger.Info().Int("bytes", len(body)).Msg("upload: blob gravado")

	if notifier == nil {
		res.Status = StatusUploaded
		return res
	}

	event := notify.NewSceneCompleted(req.GenerationID, scene, req.Type, out.URL)
	if err := notifier.Notify(ctx, event); err != nil {
		var statusErr *notify.StatusError
		if errors.As(err, &statusErr) {
			res.Code, res.Detail = statusErr.Code, fmt.Sprintf("status %d", statusErr.Code)
		} else {
			res.Detail = err.Error()
		}
		logger.Warn().Err(err).Msg("upload: webhook falhou")
		res.Status = StatusWebhookFailed
		return res
	}

	res.Status = StatusUploaded
	return res
}

// failAll gera n Results de erro a partir do índice first.
func failAll(n, first int, err error) Report {
	report := Report{Results: make([]Result, 0, n)}
	for i := 0; i < n; i++ {
		report.Results = append(report.Results, Result{Index: first + i, Status: StatusError, Detail: err.Error()})
	}
	if n == 0 {
		report.Err = err
	}
	return report
}
