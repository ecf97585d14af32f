package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
	records map[string][]domain.RawProduct
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
		records: make(map[string][]domain.RawProduct),
	}
}

// Save stores or updates source metadata.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
	return nil
}

// Get retrieves source metadata by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// List returns all sources ordered by load position.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes the source metadata and its records.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sources, id)
	delete(s.records, id)
	return nil
}

// Rename moves the metadata and records to a new id and name.
func (s *SourceStore) Rename(_ context.Context, id, newID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, ok := s.sources[id]
	if !ok {
		return domain.ErrNotFound
	}
	source.ID = newID
	source.Name = newName
	source.UpdatedAt = time.Now()
	if newID != id {
		delete(s.sources, id)
		if records, ok := s.records[id]; ok {
			s.records[newID] = records
			delete(s.records, id)
		}
	}
	s.sources[newID] = source
	return nil
}

// LoadRecords reads the raw records of a source.
func (s *SourceStore) LoadRecords(_ context.Context, id string) ([]domain.RawProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(records), nil
}

// SaveRecords rewrites the raw records of a source.
func (s *SourceStore) SaveRecords(_ context.Context, id string, records []domain.RawProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = slices.Clone(records)
	return nil
}
