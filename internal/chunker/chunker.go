// Package chunker splits extracted document text into bounded segments that
// fit the persistence backend's per-field size limit.
package chunker

import (
	"unicode/utf8"

	"github.com/refshelf/refshelf/internal/models"
)

const (
	// MaxChunkLen is the per-segment character ceiling, dictated by the
	// spreadsheet cell limit of the persistence backend.
	MaxChunkLen = 48000

	// MaxTotalLen caps the text considered for chunking. Anything past it
	// is dropped rather than erroring so ingestion stays non-fatal.
	MaxTotalLen = MaxChunkLen * models.MaxChunks

	// SnippetLen is the size of the leading slice handed to metadata
	// inference. A tuning value, not a correctness one.
	SnippetLen = 5000
)

// Result holds the bounded outputs derived from one document's text.
type Result struct {
	// Text is the input after the total-size ceiling was applied.
	Text string
	// Snippet is a prefix of Text, at most SnippetLen characters.
	Snippet string
	// Chunks are non-overlapping, in original order, each at most
	// MaxChunkLen bytes. At most models.MaxChunks entries; trailing text
	// beyond that is dropped.
	Chunks []string
}

// Split truncates text to the total ceiling, derives the analysis snippet,
// and cuts the truncated text into ordered bounded segments.
func Split(text string) Result {
	return split(text, MaxChunkLen, models.MaxChunks, SnippetLen)
}

// split never cuts inside a multibyte rune: every boundary backs up to a
// rune start, so chunks may run up to utf8.UTFMax-1 bytes short of the
// ceiling. chunkLen must be at least utf8.UTFMax.
func split(text string, chunkLen, maxChunks, snippetLen int) Result {
	text = Clip(text, chunkLen*maxChunks)
	snippet := Clip(text, snippetLen)

	var chunks []string
	for i := 0; i < len(text) && len(chunks) < maxChunks; {
		end := i + len(Clip(text[i:], chunkLen))
		chunks = append(chunks, text[i:end])
		i = end
	}

	return Result{Text: text, Snippet: snippet, Chunks: chunks}
}

// Clip truncates s to at most limit bytes, moving the cut back to the
// nearest rune start so the result is always valid UTF-8 when s is.
func Clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
