// Package ingest drives the end-to-end pipeline that turns a selected file
// into a reconciled metadata draft plus bounded text chunks.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/extract"
	"github.com/refshelf/refshelf/internal/infer"
	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/reconcile"
)

// Stage is the orchestrator's progress indicator. It gates form-field
// editability in the presentation layer.
type Stage int

const (
	StageIdle Stage = iota
	StageReading
	StageAnalyzing
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageReading:
		return "Reading"
	case StageAnalyzing:
		return "AnalyzingMetadata"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// CanEditMetadata reports whether metadata fields are editable at this
// stage. Entering Reading locks them until the pipeline resolves.
func (s Stage) CanEditMetadata() bool { return s == StageIdle }

// CanEditTitle reports whether the title field is editable. The title stays
// open during Reading and locks only while metadata analysis runs.
func (s Stage) CanEditTitle() bool { return s != StageAnalyzing }

// ErrBusy is returned when an ingestion is started while another is in
// flight. One ingestion at a time per form instance; there is no abort.
var ErrBusy = errors.New("an ingestion is already in progress")

// Extractor is the extraction/storage boundary consumed by the orchestrator.
type Extractor interface {
	Extract(ctx context.Context, f extract.File) (models.RawExtraction, error)
}

// Inferrer is the metadata inference boundary.
type Inferrer interface {
	Infer(ctx context.Context, snippet string, opts infer.Options) (models.InferredMetadata, error)
}

// Draft is the outcome of one ingestion: the reconciled partial metadata,
// the storable chunks, and any soft-failure warnings. The selected file
// reference survives failures so the form can keep showing the filename.
type Draft struct {
	FileName  string                   `json:"fileName"`
	Meta      models.InferredMetadata  `json:"meta"`
	Chunks    []string                 `json:"chunks"`
	StorageID string                   `json:"storageId,omitempty"`
	Format    models.FileFormat        `json:"format"`
	Warnings  []string                 `json:"warnings,omitempty"`
}

// Orchestrator sequences extraction, inference, and reconciliation as a
// three-state machine. All work is synchronous; the suspension points are
// the network calls inside the collaborators.
type Orchestrator struct {
	extractor Extractor
	inferrer  Inferrer
	policy    reconcile.Policy

	mu      sync.Mutex
	stage   Stage
	onStage func(Stage)
}

// New creates an orchestrator. policy defaults to reconcile.DefaultPolicy
// when nil; onStage, when non-nil, observes every stage transition.
func New(extractor Extractor, inferrer Inferrer, policy reconcile.Policy, onStage func(Stage)) *Orchestrator {
	if policy == nil {
		policy = reconcile.DefaultPolicy
	}
	return &Orchestrator{
		extractor: extractor,
		inferrer:  inferrer,
		policy:    policy,
		onStage:   onStage,
	}
}

// Stage returns the current stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

func (o *Orchestrator) setStage(s Stage) {
	o.mu.Lock()
	o.stage = s
	o.mu.Unlock()
	if o.onStage != nil {
		o.onStage(s)
	}
}

// Ingest runs the full pipeline for one selected file. The only fatal error
// is the file-size ceiling, rejected before any state transition; every
// network failure degrades to a warning on the returned draft. The stage
// always returns to Idle.
func (o *Orchestrator) Ingest(ctx context.Context, f extract.File, opts infer.Options) (*Draft, error) {
	o.mu.Lock()
	if o.stage != StageIdle {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.mu.Unlock()

	// Reject oversized files before entering Reading; the invalid file is
	// not retained.
	if len(f.Data) > extract.MaxFileBytes {
		return nil, &apperr.ValidationError{
			Reason: fmt.Sprintf("file %q exceeds the %d byte limit", f.Name, extract.MaxFileBytes),
		}
	}

	draft := &Draft{
		FileName: f.Name,
		Format:   extract.FormatForFilename(f.Name),
	}

	o.setStage(StageReading)
	defer o.setStage(StageIdle)

	raw, err := o.extractor.Extract(ctx, f)
	draft.StorageID = raw.StorageID
	draft.Chunks = raw.Chunks
	if err != nil {
		// Extraction or storage failed: keep the file selection and
		// whatever partial data came back, skip analysis, and leave the
		// form open for manual entry.
		slog.Warn("Extraction failed, falling back to manual metadata entry", "file", f.Name, "err", err)
		draft.Warnings = append(draft.Warnings, "text extraction failed: "+err.Error())
		draft.Meta = reconcile.Merge(o.policy,
			reconcile.Source{Origin: reconcile.OriginExtracted, Meta: models.InferredMetadata{Title: raw.TitleGuess}},
			reconcile.Source{Origin: reconcile.OriginFilename, Meta: extract.FilenameMetadata(f.Name)},
		)
		return draft, nil
	}

	o.setStage(StageAnalyzing)

	inferred, err := o.inferrer.Infer(ctx, raw.Snippet, opts)
	if err != nil {
		slog.Warn("Metadata inference failed, continuing with remaining sources", "file", f.Name, "err", err)
		draft.Warnings = append(draft.Warnings, "metadata inference failed: "+err.Error())
	}

	draft.Meta = reconcile.Merge(o.policy,
		reconcile.Source{Origin: reconcile.OriginInferred, Meta: inferred},
		reconcile.Source{Origin: reconcile.OriginExtracted, Meta: models.InferredMetadata{Title: raw.TitleGuess}},
		reconcile.Source{Origin: reconcile.OriginFilename, Meta: extract.FilenameMetadata(f.Name)},
	)
	return draft, nil
}

// Overlay applies the draft's populated fields over existing form values,
// leaving user-entered values in any field the pipeline left empty.
func (d *Draft) Overlay(base models.InferredMetadata) models.InferredMetadata {
	merged := reconcile.Merge(reconcile.Policy{reconcile.OriginInferred, reconcile.OriginExtracted},
		reconcile.Source{Origin: reconcile.OriginInferred, Meta: d.Meta},
		reconcile.Source{Origin: reconcile.OriginExtracted, Meta: base},
	)
	return merged
}
