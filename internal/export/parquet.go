// Package export writes library snapshots to Parquet for offline analysis.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/store"
)

// Row is the flattened Parquet representation of one library record. List
// fields are joined with "; " so the file stays a flat columnar table.
type Row struct {
	ID        string `parquet:"id"`
	CreatedAt string `parquet:"created_at"`
	UpdatedAt string `parquet:"updated_at"`
	Title     string `parquet:"title"`
	Type      string `parquet:"type"`
	Category  string `parquet:"category"`
	Topic     string `parquet:"topic"`
	SubTopic  string `parquet:"sub_topic"`
	Author    string `parquet:"author"`
	Publisher string `parquet:"publisher"`
	Year      string `parquet:"year"`
	AddMethod string `parquet:"add_method"`
	Source    string `parquet:"source"`
	Format    string `parquet:"format"`
	URL       string `parquet:"url"`
	StorageID string `parquet:"storage_id"`
	Tags      string `parquet:"tags"`
	Abstract  string `parquet:"abstract"`
	Summary   string `parquet:"summary"`
}

func rowFor(rec models.LibraryRecord) Row {
	return Row{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Title:     rec.Title,
		Type:      string(rec.Type),
		Category:  rec.Category,
		Topic:     rec.Topic,
		SubTopic:  rec.SubTopic,
		Author:    rec.Author,
		Publisher: rec.Publisher,
		Year:      rec.Year,
		AddMethod: string(rec.AddMethod),
		Source:    string(rec.Source),
		Format:    string(rec.Format),
		URL:       rec.URL,
		StorageID: rec.StorageID,
		Tags:      strings.Join(rec.Tags, "; "),
		Abstract:  rec.Abstract,
		Summary:   rec.Summary,
	}
}

// WriteLibrary lists every record in the store and writes them to a Parquet
// file at path.
func WriteLibrary(ctx context.Context, s store.Store, path string) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Row](file)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rowFor(rec))
	}

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return 0, fmt.Errorf("writing rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("finalizing parquet file: %w", err)
	}

	slog.Info("Exported library", "path", path, "records", len(rows))
	return len(rows), nil
}
