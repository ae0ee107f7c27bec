// Package infer turns a bounded document snippet into a partial
// bibliographic record via a single LLM call with a strict response schema.
package infer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/chunker"
	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/providers"
)

// SnippetBudget is the character budget for the text handed to the model.
// Changing it is a tuning decision, not a correctness one.
const SnippetBudget = 5000

// Mode selects which field set the inference call asks for. The two modes
// are mutually exclusive configurations of the same client.
type Mode string

const (
	// ModeCore extracts only fundamental metadata: title, authors, year,
	// publisher, classification, keywords, and labels. Abstract, summary,
	// methodology, and citation material are deliberately excluded.
	ModeCore Mode = "core"
	// ModeDeep additionally asks for abstract, summary, methodology,
	// strengths, weaknesses, unfamiliar terms, and reading tips.
	ModeDeep Mode = "deep"
)

// Options configure one inference call.
type Options struct {
	// Provider selects the registered provider; empty uses the default.
	Provider string
	// Model overrides the configured model when non-empty.
	Model string
}

// Client issues metadata inference requests.
type Client struct {
	registry        *providers.Registry
	defaultProvider string
	defaultModel    string
	temperature     float64
	mode            Mode
}

// NewClient creates an inference client bound to a provider registry.
func NewClient(registry *providers.Registry, defaultProvider, defaultModel string, mode Mode) *Client {
	if mode == "" {
		mode = ModeCore
	}
	return &Client{
		registry:        registry,
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
		temperature:     0.1,
		mode:            mode,
	}
}

// Infer sends one inference request for the snippet and returns the cleaned
// partial metadata. An unparseable response is a soft failure: the zero
// metadata value is returned with a nil error so ingestion continues with
// whatever other sources provided. A transport failure is returned to the
// caller, which downgrades it to a warning.
func (c *Client) Infer(ctx context.Context, snippet string, opts Options) (models.InferredMetadata, error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = c.defaultProvider
	}
	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}

	provider, err := c.registry.Get(providerName)
	if err != nil {
		return models.InferredMetadata{}, &apperr.TransportError{Op: "metadata inference", Err: err}
	}

	snippet = chunker.Clip(snippet, SnippetBudget)

	resp, err := provider.Generate(ctx, providers.Request{
		Model:       model,
		Temperature: c.temperature,
		Prompt:      c.buildPrompt(snippet),
	})
	if err != nil {
		return models.InferredMetadata{}, &apperr.TransportError{Op: "metadata inference", Err: fmt.Errorf("provider %s: %w", providerName, err)}
	}

	meta, err := ParseResponse(resp)
	if err != nil {
		slog.Warn("Failed to parse inference response, continuing without AI metadata", "provider", providerName, "err", err)
		return models.InferredMetadata{}, nil
	}

	slog.Info("Inferred metadata", "provider", providerName, "model", model, "title", meta.Title)
	return meta, nil
}

func (c *Client) buildPrompt(snippet string) string {
	deepSection := ""
	deepSchema := ""
	if c.mode == ModeDeep {
		deepSection = `
11. Abstract: Quote or reconstruct the document's abstract.
12. Summary: Summarize the key findings in 2-3 sentences.
13. Methodology: Name the research methodology used.
14. Strengths: List 2-3 strengths of the work.
15. Weaknesses: List 2-3 weaknesses or limitations.
16. UnfamiliarTerms: List specialist terms a general reader may not know.
17. Tips: One short paragraph of reading advice.`
		deepSchema = `,
  "abstract": "String",
  "summary": "String",
  "methodology": "String",
  "strengths": ["String"],
  "weaknesses": ["String"],
  "unfamiliarTerms": ["String"],
  "tips": "String"`
	}

	exclusion := "DO NOT include abstract, methodology, summaries, or citations in this stage."
	if c.mode == ModeDeep {
		exclusion = "Include the deep-insight fields listed above."
	}

	return fmt.Sprintf(`ACT AS AN EXPERT ACADEMIC LIBRARIAN.
TASK: Extract fundamental metadata from the provided document text snippet.

GUIDELINES:
1. Title: Identify the full official title of the document.
2. Authors: Carefully identify ALL authors. Return them as a clean array of individual names with proper spacing between first and last names.
3. Year: Extract the publication year (YYYY).
4. Publisher: Identify the journal name, university, or publishing house.
5. Type: Select the most appropriate from ["Literature", "Task", "Personal", "Other"].
6. Category: Identify the document category (e.g., Original Research, Case Study, Handbook, Review).
7. Topic: Determine a broad scientific or professional topic (max two words).
8. Sub-Topic: Identify a specific area within that topic (max two words).
9. Keywords: Generate exactly 5-7 keywords. Each must be a single concept, properly formatted with spaces.
10. Labels: Generate 2-3 thematic labels.%s

IMPORTANT:
- Identify names accurately. Do not truncate.
- Return ONLY valid JSON.
- %s

EXPECTED JSON SCHEMA:
{
  "title": "String",
  "authors": ["Author Name 1", "Author Name 2"],
  "year": "YYYY",
  "publisher": "String",
  "type": "Literature",
  "category": "String",
  "topic": "String",
  "subTopic": "String",
  "keywords": ["tag1", "tag2"],
  "labels": ["label1", "label2"]%s
}

TEXT SNIPPET:
%s`, deepSection, exclusion, deepSchema, snippet)
}
