// Package node expõe o uploader no formato que o editor de pipelines espera:
// entradas tipadas, saída em texto e sinalização de que o nó nunca deve ser cacheado.
package node

import (
	"context"
	"math"
	"strings"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/uploader"
)

const (
	DefaultBaseURL = "https://snapsai.blob.core.windows.net/output/previews/"

	SingleName = "AzureBlobUploader"
	BatchName  = "AzureBlobBatchUploader"
)

// Inputs são os campos de texto configurados no nó.
type Inputs struct {
	BaseURL             string `json:"base_url"`
	DestinationBlobName string `json:"destination_blob_name"`
	FileName            string `json:"file_name"`
	SASToken            string `json:"sas_token"`
	GenerationID        string `json:"generation_id"`
	WebhookURL          string `json:"webhook_url"`
	SceneOrder          string `json:"scene_order"`
	Type                string `json:"type"`
}

// Defaults vêm da configuração do processo e preenchem campos vazios.
type Defaults struct {
	BaseURL    string
	SASToken   string
	WebhookURL string
}

func (in Inputs) withDefaults(d Defaults) Inputs {
	if strings.TrimSpace(in.BaseURL) == "" {
		in.BaseURL = d.BaseURL
	}
	if strings.TrimSpace(in.BaseURL) == "" {
		in.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(in.SASToken) == "" {
		in.SASToken = d.SASToken
	}
	if strings.TrimSpace(in.WebhookURL) == "" {
		in.WebhookURL = d.WebhookURL
	}
	if strings.TrimSpace(in.DestinationBlobName) == "" {
		in.DestinationBlobName = in.FileName
	}
	return in
}

// Node é o contrato mínimo com o host.
type Node interface {
	Name() string
	// Execute nunca falha: erros vêm embutidos no texto e no relatório.
	Execute(ctx context.Context, input imaging.Input, inputs Inputs) (string, uploader.Report)
	// IsChanged devolve um valor que nunca é igual a si mesmo, forçando reexecução.
	IsChanged() float64
}

// AlwaysChanged é o sentinela não comparável (NaN != NaN).
func AlwaysChanged() float64 {
	return math.NaN()
}

// SingleNode envia só a primeira imagem, com nome fixo.
type SingleNode struct {
	svc      *uploader.Service
	defaults Defaults
}

func NewSingleNode(svc *uploader.Service, defaults Defaults) *SingleNode {
	return &SingleNode{svc: svc, defaults: defaults}
}

func (n *SingleNode) Name() string { return SingleName }

func (n *SingleNode) IsChanged() float64 { return AlwaysChanged() }

func (n *SingleNode) Execute(ctx context.Context, input imaging.Input, inputs Inputs) (string, uploader.Report) {
	inputs = inputs.withDefaults(n.defaults)

	req := uploader.Request{
		Input:        input,
		BaseURL:      inputs.BaseURL,
		Credential:   inputs.SASToken,
		FileName:     imaging.NormalizeFilename(inputs.DestinationBlobName),
		GenerationID: inputs.GenerationID,
		WebhookURL:   inputs.WebhookURL,
		SceneOrder:   inputs.SceneOrder,
		Type:         inputs.Type,
	}
	if first, ok := input.First(); ok {
		req.Input = imaging.NewSingle(first)
	}

	report := n.svc.Run(ctx, req)
	return report.Single(), report
}

// BatchNode envia todas as imagens com nomes gerados e notifica o webhook.
type BatchNode struct {
	svc      *uploader.Service
	defaults Defaults
}

func NewBatchNode(svc *uploader.Service, defaults Defaults) *BatchNode {
	return &BatchNode{svc: svc, defaults: defaults}
}

func (n *BatchNode) Name() string { return BatchName }

func (n *BatchNode) IsChanged() float64 { return AlwaysChanged() }

func (n *BatchNode) Execute(ctx context.Context, input imaging.Input, inputs Inputs) (string, uploader.Report) {
	inputs = inputs.withDefaults(n.defaults)

	report := n.svc.Run(ctx, uploader.Request{
		Input:        input,
		BaseURL:      inputs.BaseURL,
		Credential:   inputs.SASToken,
		GenerationID: inputs.GenerationID,
		WebhookURL:   inputs.WebhookURL,
		SceneOrder:   inputs.SceneOrder,
		Type:         inputs.Type,
	})
	return report.String(), report
}
