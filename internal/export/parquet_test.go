package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/refshelf/refshelf/internal/models"
	"github.com/refshelf/refshelf/internal/store"
)

func TestWriteLibraryRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	rec := models.LibraryRecord{
		ID:        "rec-1",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Title:     "Machine Learning Basics",
		Type:      models.TypeLiterature,
		Category:  "AI",
		Topic:     "ML",
		Author:    "Jane Doe",
		Authors:   []string{"Jane Doe"},
		AddMethod: models.AddMethodLink,
		Source:    models.SourceLink,
		Format:    models.FormatURL,
		URL:       "https://example.org/ml",
		Tags:      []string{"ml", "intro"},
	}
	if err := mem.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "library.parquet")
	n, err := WriteLibrary(context.Background(), mem, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("wrote %d rows, want 1", n)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		t.Fatal(err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		t.Fatalf("exported file is not valid parquet: %v", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()
	rows := make([]Row, 1)
	if n, _ := reader.Read(rows); n != 1 {
		t.Fatalf("read %d rows, want 1", n)
	}
	if rows[0].ID != "rec-1" || rows[0].Title != "Machine Learning Basics" {
		t.Errorf("row = %+v", rows[0])
	}
	if rows[0].Tags != "ml; intro" {
		t.Errorf("tags = %q", rows[0].Tags)
	}
	if rows[0].CreatedAt != "2024-03-01T12:00:00Z" {
		t.Errorf("createdAt = %q", rows[0].CreatedAt)
	}
}

func TestWriteLibraryEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	n, err := WriteLibrary(context.Background(), store.NewMemory(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should exist even when empty: %v", err)
	}
}
