// Package notify avisa sistemas externos quando uma cena termina de subir.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmedbana/upload-to-azure/internal/util"
)

const (
	StatusSceneCompleted = "scene-completed"
	SceneStatusCompleted = "completed"
	DefaultGenerationID  = "default"
	sceneNotBlurred      = "false"
	maxErrorBody         = 1024
)

// Notifier envia eventos de conclusão para canais externos.
type Notifier interface {
	Notify(ctx context.Context, event SceneCompleted) error
}

// SceneResult é o bloco aninhado do evento.
type SceneResult struct {
	SceneOrder        string `json:"sceneOrder"`
	Type              string `json:"type"`
	ProcessedImageURL string `json:"processedImageUrl"`
	SceneBlurred      string `json:"sceneBlurred"`
	Status            string `json:"status"`
}

// SceneCompleted é o corpo JSON enviado ao webhook.
type SceneCompleted struct {
	Status       string      `json:"status"`
	GenerationID string      `json:"generationId"`
	SceneResult  SceneResult `json:"sceneResult"`
}

// NewSceneCompleted preenche os literais fixos do evento; generationID vazio vira "default".
func NewSceneCompleted(generationID, sceneOrder, sceneType, imageURL string) SceneCompleted {
	if strings.TrimSpace(generationID) == "" {
		generationID = DefaultGenerationID
	}
	return SceneCompleted{
		Status:       StatusSceneCompleted,
		GenerationID: generationID,
		SceneResult: SceneResult{
			SceneOrder:        sceneOrder,
			Type:              sceneType,
			ProcessedImageURL: imageURL,
			SceneBlurred:      sceneNotBlurred,
			Status:            SceneStatusCompleted,
		},
	}
}

// StatusError indica resposta do webhook fora de 200/201/202.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("notify: webhook respondeu %d", e.Code)
	}
	return fmt.Sprintf("notify: webhook respondeu %d: %s", e.Code, e.Body)
}

type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier devolve nil quando a URL está vazia.
func NewWebhookNotifier(webhookURL string, client *http.Client) *WebhookNotifier {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     client,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event SceneCompleted) error {
	if n == nil || n.webhookURL == "" {
		return errors.New("notify: webhook não configurado")
	}
	if err := util.ValidateHTTPURL(n.webhookURL, "notify: webhook_url"); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
