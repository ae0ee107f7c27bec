// Package handlers exposes the library over HTTP: ingestion, record CRUD,
// and stage reporting.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/ingest"
	"github.com/refshelf/refshelf/internal/record"
	"github.com/refshelf/refshelf/internal/store"
)

type Handler struct {
	store        store.Store
	orchestrator *ingest.Orchestrator
	builder      *record.Builder
}

func New(s store.Store, o *ingest.Orchestrator) *Handler {
	return &Handler{
		store:        s,
		orchestrator: o,
		builder:      record.NewBuilder(s),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	slog.Error("Request failed", "err", err)
	http.Error(w, err.Error(), apperr.HTTPStatus(err))
}
