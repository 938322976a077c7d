package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ahmedbana/upload-to-azure/internal/imaging"
	"github.com/ahmedbana/upload-to-azure/internal/node"
	"github.com/ahmedbana/upload-to-azure/internal/uploader"
)

type nodeInfo struct {
	Name          string `json:"name"`
	AlwaysChanged bool   `json:"always_changed"`
}

type executeResponse struct {
	Node    string            `json:"node"`
	Status  string            `json:"status"`
	OK      bool              `json:"ok"`
	Results []uploader.Result `json:"results"`
	Counts  uploader.Counts   `json:"counts"`
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListNodes lista os nós disponíveis.
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	items := make([]nodeInfo, 0)
	for _, n := range h.registry.List() {
		v := n.IsChanged()
		items = append(items, nodeInfo{Name: n.Name(), AlwaysChanged: math.IsNaN(v)})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"nodes": items})
}

// ExecuteNode recebe a imagem (tensor 3-D/4-D ou base64) e os campos do nó.
// Falhas de envio não mudam o status HTTP: vêm no texto e nos results.
func (h *Handler) ExecuteNode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	n, ok := h.registry.Get(name)
	if !ok {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "nó não encontrado", map[string]string{"name": name})
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var payload struct {
		Image  json.RawMessage `json:"image"`
		Inputs node.Inputs     `json:"inputs"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "corpo excede o limite", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	input, err := imaging.FromTensor(payload.Image)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	text, report := n.Execute(r.Context(), input, payload.Inputs)

	counts := report.Counts()
	h.logger.Info().
		Str("node", n.Name()).
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Int("images", input.Len()).
		Int("uploaded", counts.Uploaded).
		Int("partial", counts.Partial).
		Int("failed", counts.Failed).
		Msg("nó executado")

	results := report.Results
	if results == nil {
		results = []uploader.Result{}
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, executeResponse{
		Node:    n.Name(),
		Status:  text,
		OK:      report.OK(),
		Results: results,
		Counts:  counts,
	})
}
