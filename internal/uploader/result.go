package uploader

import (
	"fmt"
	"strings"
)

// Status classifica o desfecho de uma imagem.
type Status int

const (
	// StatusUploaded: PUT 201 e webhook ausente ou bem-sucedido.
	StatusUploaded Status = iota + 1
	// StatusWebhookFailed: blob gravado, mas o webhook falhou. Conta como sucesso parcial.
	StatusWebhookFailed
	// StatusUploadFailed: storage respondeu algo diferente de 201.
	StatusUploadFailed
	// StatusError: falha antes ou durante o envio (codificação, rede, validação, cancelamento).
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUploaded:
		return "uploaded"
	case StatusWebhookFailed:
		return "webhook_failed"
	case StatusUploadFailed:
		return "upload_failed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result é o desfecho de uma imagem do lote.
type Result struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	URL    string `json:"url,omitempty"`
	Status Status `json:"status"`
	Code   int    `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// String produz o texto devolvido ao host.
func (r Result) String() string {
	switch r.Status {
	case StatusUploaded:
		return r.URL
	case StatusWebhookFailed:
		return fmt.Sprintf("✓ Uploaded %s (webhook failed: %s)", r.URL, r.Detail)
	case StatusUploadFailed:
		return fmt.Sprintf("❌ Upload failed: %d - %s", r.Code, r.Detail)
	default:
		return "❌ Upload error: " + r.Detail
	}
}

// Failed indica que o blob não foi gravado.
func (r Result) Failed() bool {
	return r.Status != StatusUploaded && r.Status != StatusWebhookFailed
}

// Counts agrega os desfechos de um lote.
type Counts struct {
	Uploaded int `json:"uploaded"`
	Partial  int `json:"partial"`
	Failed   int `json:"failed"`
}

// Report é a saída de uma execução: um Result por imagem, na ordem do lote.
type Report struct {
	Results []Result
	// Err só é preenchido quando a requisição é rejeitada e não há imagens para reportar.
	Err error
}

// String junta os textos por vírgula (variante em lote).
func (r Report) String() string {
	if len(r.Results) == 0 {
		if r.Err != nil {
			return "❌ Upload error: " + r.Err.Error()
		}
		return ""
	}
	parts := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		parts = append(parts, res.String())
	}
	return strings.Join(parts, ",")
}

// Single devolve o texto da primeira imagem (variante de imagem única).
func (r Report) Single() string {
	if len(r.Results) == 0 {
		return r.String()
	}
	return r.Results[0].String()
}

func (r Report) Counts() Counts {
	var c Counts
	for _, res := range r.Results {
		switch {
		case res.Failed():
			c.Failed++
		case res.Status == StatusWebhookFailed:
			c.Partial++
		default:
			c.Uploaded++
		}
	}
	if len(r.Results) == 0 && r.Err != nil {
		c.Failed++
	}
	return c
}

// OK é verdadeiro quando todos os blobs foram gravados; falha de webhook não reprova o lote.
func (r Report) OK() bool {
	return r.Counts().Failed == 0
}
