package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/chunker"
)

func extractionServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
}

func TestExtractFileSizeCeiling(t *testing.T) {
	c := NewClient("http://unused.invalid", "")

	// Exactly at the ceiling is accepted (reaches the network layer, which
	// fails here because the endpoint is unreachable).
	atLimit := File{Data: make([]byte, MaxFileBytes), Name: "big.pdf"}
	_, err := c.Extract(context.Background(), atLimit)
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("file at ceiling rejected with ValidationError: %v", err)
	}

	// One byte over is rejected before any network call.
	over := File{Data: make([]byte, MaxFileBytes+1), Name: "bigger.pdf"}
	_, err = c.Extract(context.Background(), over)
	if !errors.As(err, &ve) {
		t.Fatalf("oversized file error = %v, want ValidationError", err)
	}
}

func TestExtractFullTextIsChunkedLocally(t *testing.T) {
	srv := extractionServer(t, `{"status":"success","data":{"fullText":"hello world","title":"A Paper"}}`, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Extract(context.Background(), File{Data: []byte("%PDF"), Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if raw.FullText != "hello world" {
		t.Errorf("FullText = %q", raw.FullText)
	}
	if len(raw.Chunks) != 1 || raw.Chunks[0] != "hello world" {
		t.Errorf("Chunks = %v, want single local chunk", raw.Chunks)
	}
	if raw.Snippet != "hello world" {
		t.Errorf("Snippet = %q", raw.Snippet)
	}
	if raw.TitleGuess != "A Paper" {
		t.Errorf("TitleGuess = %q", raw.TitleGuess)
	}
}

func TestExtractPreChunkedResponseUsedAsIs(t *testing.T) {
	srv := extractionServer(t, `{"status":"success","data":{"fullText":"full","chunks":["c1","c2"]}}`, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(raw.Chunks) != 2 || raw.Chunks[0] != "c1" || raw.Chunks[1] != "c2" {
		t.Errorf("Chunks = %v, want service chunks preserved", raw.Chunks)
	}
}

func TestExtractServiceErrorIsTransportError(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"non-2xx status", "boom", http.StatusInternalServerError},
		{"error status in envelope", `{"status":"error","message":"cannot parse"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := extractionServer(t, tt.body, tt.status)
			defer srv.Close()

			c := NewClient(srv.URL, "")
			_, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})

			var te *apperr.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want TransportError", err)
			}
		})
	}
}

func TestExtractStorageIndependentOfExtraction(t *testing.T) {
	// Extraction fails, storage succeeds: the handle must still come back.
	failing := extractionServer(t, "down", http.StatusBadGateway)
	defer failing.Close()
	storing := extractionServer(t, `{"status":"success","data":{"fileId":"drive-123"}}`, http.StatusOK)
	defer storing.Close()

	c := NewClient(failing.URL, storing.URL)
	raw, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})

	if err == nil {
		t.Fatal("expected extraction error")
	}
	if raw.StorageID != "drive-123" {
		t.Errorf("StorageID = %q, want drive-123 despite extraction failure", raw.StorageID)
	}
}

func TestExtractChunkBoundsAppliedToServiceChunks(t *testing.T) {
	chunks := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		chunks = append(chunks, `"c"`)
	}
	body := `{"status":"success","data":{"fullText":"f","chunks":[` + strings.Join(chunks, ",") + `]}}`
	srv := extractionServer(t, body, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(raw.Chunks) != 10 {
		t.Errorf("chunk count = %d, want capped at 10", len(raw.Chunks))
	}
}

func TestExtractOversizedServiceChunkClippedAtRuneBoundary(t *testing.T) {
	// A one-byte prefix misaligns the rune grid so the per-chunk ceiling
	// lands inside a three-byte rune.
	oversized := "a" + strings.Repeat("日", chunker.MaxChunkLen/3)
	encoded, err := json.Marshal(oversized)
	if err != nil {
		t.Fatal(err)
	}
	body := `{"status":"success","data":{"fullText":"f","chunks":[` + string(encoded) + `]}}`
	srv := extractionServer(t, body, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(raw.Chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(raw.Chunks))
	}
	if len(raw.Chunks[0]) > chunker.MaxChunkLen {
		t.Errorf("chunk length %d exceeds ceiling", len(raw.Chunks[0]))
	}
	if !utf8.ValidString(raw.Chunks[0]) {
		t.Error("clipped chunk is not valid UTF-8")
	}
}

func TestExtractSnippetSpansServiceChunks(t *testing.T) {
	// No fullText: the snippet must be a prefix of the whole document, not
	// of the first short segment.
	body := `{"status":"success","data":{"chunks":["hello ","world"]}}`
	srv := extractionServer(t, body, http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	raw, err := c.Extract(context.Background(), File{Data: []byte("x"), Name: "a.pdf"})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if raw.FullText != "hello world" {
		t.Errorf("FullText = %q, want reconstruction from segments", raw.FullText)
	}
	if raw.Snippet != "hello world" {
		t.Errorf("Snippet = %q, want prefix of the reconstructed text", raw.Snippet)
	}
}
