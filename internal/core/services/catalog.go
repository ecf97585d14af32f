package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService owns the canonical catalog snapshot. Rebuild produces a
// fresh snapshot from the registered sources and swaps it in atomically;
// in-flight readers keep whichever snapshot they loaded.
type CatalogService struct {
	sourceStore     driven.SourceStore
	defaultCurrency string

	snapshot  atomic.Pointer[domain.Catalog]
	rebuildMu sync.Mutex
}

// NewCatalogService creates a catalog service. The snapshot starts empty;
// call Rebuild to populate it from the source store.
func NewCatalogService(sourceStore driven.SourceStore, defaultCurrency string) *CatalogService {
	s := &CatalogService{
		sourceStore:     sourceStore,
		defaultCurrency: defaultCurrency,
	}
	s.snapshot.Store(domain.NewCatalog())
	return s
}

// Snapshot returns the current canonical catalog snapshot.
func (s *CatalogService) Snapshot() *domain.Catalog {
	return s.snapshot.Load()
}

// Get retrieves a canonical record by key.
func (s *CatalogService) Get(key string) (*domain.ProductRecord, error) {
	record := s.snapshot.Load().Get(key)
	if record == nil {
		return nil, fmt.Errorf("product %q: %w", key, domain.ErrNotFound)
	}
	return record, nil
}

// ListSources returns sources visible to the viewer, in load order.
func (s *CatalogService) ListSources(ctx context.Context, viewerID string) ([]domain.Source, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	visible := make([]domain.Source, 0, len(sources))
	for _, source := range sources {
		if source.VisibleTo(viewerID) {
			visible = append(visible, source)
		}
	}
	return visible, nil
}

// Rebuild re-runs normalisation over every registered source and swaps in
// the resulting snapshot. Sources are processed in load order so earlier
// sources win key collisions.
func (s *CatalogService) Rebuild(ctx context.Context) (*domain.Catalog, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	logger.Section("Catalog Rebuild")

	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	logger.Debug("Rebuilding from %d sources", len(sources))

	catalog := domain.NewCatalog()
	for _, source := range sources {
		records, err := s.sourceStore.LoadRecords(ctx, source.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Source %s has no record file, skipping", source.ID)
				continue
			}
			return nil, fmt.Errorf("load records for source %s: %w", source.ID, err)
		}

		for _, raw := range records {
			record := raw.Normalise(source.ID, s.defaultCurrency)
			if record == nil {
				catalog.Skipped++
				logger.Warn("Source %s: record without identifier skipped", source.ID)
				continue
			}
			catalog.Add(record)
		}
		logger.Debug("Source %s: %d raw records", source.ID, len(records))
	}

	logger.Info("Catalog rebuilt: %d records, %d collisions, %d skipped",
		catalog.Len(), len(catalog.Collisions), catalog.Skipped)

	s.snapshot.Store(catalog)
	return catalog, nil
}
