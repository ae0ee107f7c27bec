// Package reconcile merges partial metadata candidates from multiple
// producers into one record under an explicit priority policy.
package reconcile

import (
	"strings"

	"github.com/refshelf/refshelf/internal/models"
)

// Origin identifies a metadata producer.
type Origin string

const (
	// OriginInferred is the AI inference step.
	OriginInferred Origin = "inferred"
	// OriginExtracted is the extraction service's naive metadata.
	OriginExtracted Origin = "extracted"
	// OriginFilename is the filename heuristic.
	OriginFilename Origin = "filename"
)

// Policy is the priority order applied during merge: earlier origins win.
// The order is configuration, not a constant, because producers of varying
// trustworthiness come and go.
type Policy []Origin

// DefaultPolicy prefers AI-inferred values, then the extraction service,
// then filename heuristics.
var DefaultPolicy = Policy{OriginInferred, OriginExtracted, OriginFilename}

// Source is one producer's partial metadata contribution.
type Source struct {
	Origin Origin
	Meta   models.InferredMetadata
}

// Merge combines the sources field by field: for each field independently,
// the first non-empty value in policy order wins. A source missing from the
// policy contributes nothing. Fields no source provides stay at their zero
// value. Author lists are sanitized before merging.
func Merge(policy Policy, sources ...Source) models.InferredMetadata {
	byOrigin := make(map[Origin]models.InferredMetadata, len(sources))
	for _, s := range sources {
		byOrigin[s.Origin] = s.Meta
	}

	ordered := make([]models.InferredMetadata, 0, len(policy))
	for _, origin := range policy {
		if meta, ok := byOrigin[origin]; ok {
			meta.Authors = SanitizeAuthors(meta.Authors)
			ordered = append(ordered, meta)
		}
	}

	var merged models.InferredMetadata
	for _, meta := range ordered {
		merged.Title = pick(merged.Title, meta.Title)
		merged.Authors = pickList(merged.Authors, meta.Authors)
		merged.Year = pick(merged.Year, meta.Year)
		merged.Publisher = pick(merged.Publisher, meta.Publisher)
		merged.Type = pick(merged.Type, meta.Type)
		merged.Category = pick(merged.Category, meta.Category)
		merged.Topic = pick(merged.Topic, meta.Topic)
		merged.SubTopic = pick(merged.SubTopic, meta.SubTopic)
		merged.Keywords = pickList(merged.Keywords, meta.Keywords)
		merged.Labels = pickList(merged.Labels, meta.Labels)
		merged.Abstract = pick(merged.Abstract, meta.Abstract)
		merged.Summary = pick(merged.Summary, meta.Summary)
		merged.Methodology = pick(merged.Methodology, meta.Methodology)
		merged.Strengths = pickList(merged.Strengths, meta.Strengths)
		merged.Weaknesses = pickList(merged.Weaknesses, meta.Weaknesses)
		merged.UnfamiliarTerms = pickList(merged.UnfamiliarTerms, meta.UnfamiliarTerms)
		merged.Tips = pick(merged.Tips, meta.Tips)
	}
	return merged
}

// SanitizeAuthors drops entries that are empty or of trivial length after
// trimming.
func SanitizeAuthors(authors []string) []string {
	var out []string
	for _, a := range authors {
		a = strings.TrimSpace(a)
		if len(a) < 2 {
			continue
		}
		out = append(out, a)
	}
	return out
}

func pick(current, candidate string) string {
	if current != "" {
		return current
	}
	return strings.TrimSpace(candidate)
}

func pickList(current, candidate []string) []string {
	if len(current) > 0 {
		return current
	}
	return candidate
}
