package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/models"
)

// SheetsStore speaks the action-tag JSON protocol of the spreadsheet-backed
// web app: every request names an action and the response carries a
// success/error status envelope.
type SheetsStore struct {
	webAppURL  string
	httpClient *http.Client
}

// NewSheets creates a store client for the given web-app URL.
func NewSheets(webAppURL string) *SheetsStore {
	return &SheetsStore{
		webAppURL: webAppURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sheetsResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (s *SheetsStore) List(ctx context.Context) ([]models.LibraryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.webAppURL+"?action=getLibrary", nil)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "list records", Err: err}
	}

	resp, err := s.do(req, "list records")
	if err != nil {
		return nil, err
	}

	var records []models.LibraryRecord
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &records); err != nil {
			return nil, &apperr.PersistenceError{Op: "list records", Err: fmt.Errorf("failed to decode payload: %w", err)}
		}
	}
	return records, nil
}

func (s *SheetsStore) Get(ctx context.Context, id string) (models.LibraryRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return models.LibraryRecord{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.LibraryRecord{}, &apperr.PersistenceError{Op: "get record", Message: "record not found: " + id, NotFound: true}
}

func (s *SheetsStore) Save(ctx context.Context, rec models.LibraryRecord) error {
	return s.post(ctx, "save record", map[string]any{
		"action": "saveItem",
		"item":   rec,
	})
}

func (s *SheetsStore) Delete(ctx context.Context, id string) error {
	return s.post(ctx, "delete record", map[string]any{
		"action": "deleteItem",
		"id":     id,
	})
}

func (s *SheetsStore) post(ctx context.Context, op string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &apperr.PersistenceError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webAppURL, bytes.NewBuffer(body))
	if err != nil {
		return &apperr.PersistenceError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = s.do(req, op)
	return err
}

func (s *SheetsStore) do(req *http.Request, op string) (*sheetsResponse, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: op, Err: fmt.Errorf("failed to reach store: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &apperr.PersistenceError{Op: op, Err: fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(b))}
	}

	var parsed sheetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &apperr.PersistenceError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if parsed.Status != "success" {
		return nil, &apperr.PersistenceError{Op: op, Message: parsed.Message}
	}
	return &parsed, nil
}
