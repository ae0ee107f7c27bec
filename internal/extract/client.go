// Package extract talks to the external text-extraction and file-storage
// services and normalizes their responses into one RawExtraction.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/chunker"
	"github.com/refshelf/refshelf/internal/models"
)

// MaxFileBytes is the hard upload ceiling, enforced before any network call.
const MaxFileBytes = 20 << 20

// File is a selected upload: raw bytes plus the client-declared name and
// media type.
type File struct {
	Data      []byte
	Name      string
	MediaType string
}

// Client calls the extraction and storage services. The two calls are
// independent: either can fail while the other succeeds.
type Client struct {
	extractURL string
	storageURL string
	httpClient *http.Client
}

// NewClient creates an extraction client for the given service endpoints.
// An empty storageURL disables the storage upload step.
func NewClient(extractURL, storageURL string) *Client {
	return &Client{
		extractURL: extractURL,
		storageURL: storageURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// serviceResponse is the wire shape both services reply with.
type serviceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    struct {
		FullText string   `json:"fullText"`
		Chunks   []string `json:"chunks"`
		Title    string   `json:"title"`
		FileID   string   `json:"fileId"`
	} `json:"data"`
}

// Extract validates the file size, then runs the extraction and storage
// calls. The returned RawExtraction carries whatever succeeded; a non-nil
// error means at least one step failed and ingestion should fall back to
// manual entry without discarding the selected file.
func (c *Client) Extract(ctx context.Context, f File) (models.RawExtraction, error) {
	if len(f.Data) > MaxFileBytes {
		return models.RawExtraction{}, &apperr.ValidationError{
			Reason: fmt.Sprintf("file %q is %d bytes, limit is %d", f.Name, len(f.Data), MaxFileBytes),
		}
	}

	var raw models.RawExtraction

	extracted, extractErr := c.callExtraction(ctx, f)
	if extractErr == nil {
		raw = extracted
	}

	var storeErr error
	if c.storageURL != "" {
		raw.StorageID, storeErr = c.callStorage(ctx, f)
	}

	if extractErr != nil {
		return raw, extractErr
	}
	return raw, storeErr
}

// callExtraction posts the file and normalizes the response. A service that
// returns pre-chunked segments is used as-is (bounded locally); one that
// returns only full text is chunked here.
func (c *Client) callExtraction(ctx context.Context, f File) (models.RawExtraction, error) {
	resp, err := c.postFile(ctx, c.extractURL, f)
	if err != nil {
		return models.RawExtraction{}, &apperr.TransportError{Op: "extraction", Err: err}
	}

	raw := models.RawExtraction{
		FullText:   resp.Data.FullText,
		TitleGuess: resp.Data.Title,
	}

	if len(resp.Data.Chunks) > 0 {
		raw.Chunks = boundChunks(resp.Data.Chunks)
		if raw.FullText == "" {
			// Reconstruct the text from the ordered segments so the
			// snippet stays a prefix of the whole document, not of the
			// first segment alone.
			raw.FullText = strings.Join(raw.Chunks, "")
		}
		raw.Snippet = snippetOf(raw.FullText)
		return raw, nil
	}

	split := chunker.Split(raw.FullText)
	raw.FullText = split.Text
	raw.Chunks = split.Chunks
	raw.Snippet = split.Snippet
	return raw, nil
}

func (c *Client) callStorage(ctx context.Context, f File) (string, error) {
	resp, err := c.postFile(ctx, c.storageURL, f)
	if err != nil {
		return "", &apperr.TransportError{Op: "storage upload", Err: err}
	}
	return resp.Data.FileID, nil
}

func (c *Client) postFile(ctx context.Context, url string, f File) (*serviceResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, fmt.Errorf("failed to write file payload: %w", err)
	}
	if err := mw.WriteField("mediaType", f.MediaType); err != nil {
		return nil, fmt.Errorf("failed to write media type field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, string(b))
	}

	var parsed serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode service response: %w", err)
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("service reported error: %s", parsed.Message)
	}
	return &parsed, nil
}

// boundChunks applies the local chunk limits to service-provided segments so
// an over-eager upstream cannot overflow the persistence fields.
func boundChunks(chunks []string) []string {
	if len(chunks) > models.MaxChunks {
		chunks = chunks[:models.MaxChunks]
	}
	out := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, chunker.Clip(ch, chunker.MaxChunkLen))
	}
	return out
}

func snippetOf(text string) string {
	return chunker.Clip(text, chunker.SnippetLen)
}
