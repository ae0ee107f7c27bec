// Package record assembles and validates the final persistable library
// entity from reconciled metadata plus user edits.
package record

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/citation"
	"github.com/refshelf/refshelf/internal/extract"
	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/store"
)

// Submission is the user's completed form: reconciled pipeline output plus
// manual edits and manual-only fields.
type Submission struct {
	AddMethod models.AddMethod   `json:"addMethod"`
	URL       string             `json:"url"`
	FileName  string             `json:"fileName"`
	StorageID string             `json:"storageId"`
	Type      models.LibraryType `json:"type"`
	Category  string             `json:"category"`
	Topic     string             `json:"topic"`
	SubTopic  string             `json:"subTopic"`
	Title     string             `json:"title"`
	Authors   []string           `json:"authors"`
	Publisher string             `json:"publisher"`
	Year      string             `json:"year"`
	Keywords  []string           `json:"keywords"`
	Labels    []string           `json:"labels"`
	Chunks    []string           `json:"chunks"`

	Abstract        string   `json:"abstract"`
	Summary         string   `json:"summary"`
	Methodology     string   `json:"methodology"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	UnfamiliarTerms []string `json:"unfamiliarTerms"`
	Tips            string   `json:"tips"`
}

// Builder turns submissions into persisted records. The clock and identity
// generator are injectable for tests.
type Builder struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

func NewBuilder(s store.Store) *Builder {
	return &Builder{
		store: s,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Validate checks the minimum field set: a source matching the add method,
// plus type, category, and topic. Failures name the missing requirement
// classes, not per-field codes.
func Validate(sub Submission) error {
	var missing []string

	switch sub.AddMethod {
	case models.AddMethodLink:
		if strings.TrimSpace(sub.URL) == "" {
			missing = append(missing, "source")
		}
	case models.AddMethodFile:
		if sub.FileName == "" && sub.StorageID == "" {
			missing = append(missing, "source")
		}
	default:
		missing = append(missing, "source")
	}

	if sub.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(sub.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(sub.Topic) == "" {
		missing = append(missing, "topic")
	}

	if len(missing) > 0 {
		return &apperr.ValidationError{Missing: missing}
	}
	return nil
}

// Build validates the submission and assembles a record with fresh identity
// and timestamps. The author display string is derived from the author list
// at this moment and nowhere else.
func (b *Builder) Build(sub Submission) (models.LibraryRecord, error) {
	if err := Validate(sub); err != nil {
		return models.LibraryRecord{}, err
	}

	now := b.now()
	title := strings.TrimSpace(sub.Title)
	if title == "" {
		title = "Untitled Reference"
	}

	rec := models.LibraryRecord{
		ID:        b.newID(),
		CreatedAt: now,
		UpdatedAt: now,

		Title:    title,
		Type:     sub.Type,
		Category: sub.Category,
		Topic:    sub.Topic,
		SubTopic: sub.SubTopic,

		Author:    strings.Join(sub.Authors, ", "),
		Authors:   sub.Authors,
		Publisher: sub.Publisher,
		Year:      sub.Year,

		AddMethod: sub.AddMethod,
		Keywords:  sub.Keywords,
		Labels:    sub.Labels,
		Tags:      UnionTags(sub.Keywords, sub.Labels),

		Abstract:        sub.Abstract,
		Summary:         sub.Summary,
		Methodology:     sub.Methodology,
		Strengths:       sub.Strengths,
		Weaknesses:      sub.Weaknesses,
		UnfamiliarTerms: sub.UnfamiliarTerms,
		Tips:            sub.Tips,
	}

	// Exactly one of URL and StorageID is populated, matching the method.
	if sub.AddMethod == models.AddMethodLink {
		rec.Source = models.SourceLink
		rec.Format = models.FormatURL
		rec.URL = sub.URL
	} else {
		rec.Source = models.SourceFile
		rec.Format = extract.FormatForFilename(sub.FileName)
		rec.StorageID = sub.StorageID
	}

	for i := 0; i < models.MaxChunks && i < len(sub.Chunks); i++ {
		rec.ExtractedInfo[i] = sub.Chunks[i]
	}

	rec.Citations = citation.Generate(rec.Title, rec.Authors, rec.Year, rec.Publisher)

	return rec, nil
}

// Submit builds the record and persists it. On persistence failure the
// assembled record is returned alongside the error so the caller can retry
// without rebuilding.
func (b *Builder) Submit(ctx context.Context, sub Submission) (models.LibraryRecord, error) {
	rec, err := b.Build(sub)
	if err != nil {
		return models.LibraryRecord{}, err
	}

	if err := b.store.Save(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// UnionTags merges keywords and labels, deduplicated, keyword order first.
func UnionTags(keywords, labels []string) []string {
	seen := make(map[string]bool, len(keywords)+len(labels))
	var out []string
	for _, t := range append(append([]string{}, keywords...), labels...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
