package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/record"
)

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		records, err := h.store.List(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		if records == nil {
			records = []models.LibraryRecord{}
		}
		h.writeJSON(w, records)
	case "POST":
		var sub record.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := h.builder.Submit(r.Context(), sub)
		if err != nil {
			h.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		h.writeJSON(w, rec)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleRecordDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" {
		http.Error(w, "Record id required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		rec, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, rec)
	case "PUT":
		h.updateRecord(w, r, id)
	case "DELETE":
		if err := h.store.Delete(r.Context(), id); err != nil {
			h.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var rec models.LibraryRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Identity and creation time are immutable; derived fields are
	// recomputed so they cannot drift from their sources.
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	rec.Author = strings.Join(rec.Authors, ", ")
	rec.Tags = record.UnionTags(rec.Keywords, rec.Labels)

	if err := h.store.Save(r.Context(), rec); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, rec)
}
