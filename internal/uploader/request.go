// Package uploader implementa o fluxo codificar → nomear → PUT → webhook para cada imagem do lote.
package uploader

import (
	"errors"
	"strings"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/util"
)

// Request reúne tudo que uma execução precisa.
type Request struct {
	Input imaging.Input
	// BaseURL do container; a barra final é acrescentada se faltar.
	BaseURL string
	// Credential é o sufixo SAS, repassado sem interpretação.
	Credential string
	// FileName fixa o nome do blob (variante de imagem única). Vazio gera nomes por imagem.
	FileName     string
	GenerationID string
	WebhookURL   string
	// SceneOrder é a lista separada por vírgulas, alinhada por posição às imagens.
	SceneOrder string
	Type       string
}

// Validate confere a requisição antes de qualquer chamada de rede.
func (r Request) Validate() error {
	if r.Input.Len() == 0 {
		return errors.New("nenhuma imagem recebida")
	}
	if err := util.ValidateHTTPURL(r.BaseURL, "base_url"); err != nil {
		return err
	}
	if strings.TrimSpace(r.FileName) != "" && r.Input.Len() > 1 {
		return errors.New("file_name fixo exige uma única imagem")
	}
	return nil
}
