// Package store is the persistence boundary: a key-value record store keyed
// by identity, with no transactional guarantees across writers.
package store

import (
	"context"

	"github.com/refshelf/refshelf/internal/models"
)

// Store holds library records. Save is a full-record upsert; partial
// updates do not exist at this boundary.
type Store interface {
	List(ctx context.Context) ([]models.LibraryRecord, error)
	Get(ctx context.Context, id string) (models.LibraryRecord, error)
	Save(ctx context.Context, rec models.LibraryRecord) error
	Delete(ctx context.Context, id string) error
}
