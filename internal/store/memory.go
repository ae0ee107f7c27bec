package store

import (
	"context"
	"sort"
	"sync"

	"github.com/refshelf/refshelf/internal/apperr"
	"github.com/refshelf/refshelf/internal/models"
)

// MemoryStore keeps records in process memory. It backs the server when no
// remote endpoint is configured, and the tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.LibraryRecord
}

func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.LibraryRecord)}
}

func (s *MemoryStore) List(_ context.Context) ([]models.LibraryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LibraryRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.LibraryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return models.LibraryRecord{}, &apperr.PersistenceError{Op: "get record", Message: "record not found: " + id, NotFound: true}
	}
	return rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec models.LibraryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
