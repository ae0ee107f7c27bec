package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/refshelf/refshelf/internal/extract"
	"github.com/refshelf/refshelf/internal/infer"
	"github.com/refshelf/refshelf/internal/ingest"
)

// HandleIngest accepts one multipart file upload and runs the full
// extraction and inference pipeline, returning the reconciled draft. Only
// one ingestion runs at a time; concurrent requests get 409.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so the orchestrator can tell an
	// at-limit file from an oversized one.
	data, err := io.ReadAll(io.LimitReader(file, extract.MaxFileBytes+1))
	if err != nil {
		http.Error(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	opts := infer.Options{
		Provider: r.FormValue("provider"),
		Model:    r.FormValue("model"),
	}

	draft, err := h.orchestrator.Ingest(r.Context(), extract.File{
		Data:      data,
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
	}, opts)
	if err != nil {
		if errors.Is(err, ingest.ErrBusy) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, draft)
}

// HandleStage reports the orchestrator's current stage and the field
// editability it implies.
func (h *Handler) HandleStage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stage := h.orchestrator.Stage()
	h.writeJSON(w, map[string]any{
		"stage":           stage.String(),
		"canEditMetadata": stage.CanEditMetadata(),
		"canEditTitle":    stage.CanEditTitle(),
	})
}
