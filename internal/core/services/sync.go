package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.IndexSyncer = (*SyncService)(nil)

// SyncService keeps the vector index consistent with the canonical catalog.
// Only one sync runs at a time; a second caller gets ErrSyncInProgress
// instead of queueing behind the first.
type SyncService struct {
	catalog     driving.CatalogService
	vectorIndex driven.VectorIndex

	runMu    sync.Mutex
	statusMu sync.RWMutex
	status   driving.SyncStatus
}

// NewSyncService creates an index syncer.
func NewSyncService(catalog driving.CatalogService, vectorIndex driven.VectorIndex) *SyncService {
	return &SyncService{
		catalog:     catalog,
		vectorIndex: vectorIndex,
	}
}

// Status returns the current sync status.
func (s *SyncService) Status() driving.SyncStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Sync upserts every canonical record missing from the index. Keys already
// present are skipped; re-upserting unchanged content is harmless but this
// avoids re-embedding the whole catalog on every run.
func (s *SyncService) Sync(ctx context.Context) (*driving.SyncStatus, error) {
	if !s.runMu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	logger.Section("Index Sync")

	indexed, err := s.vectorIndex.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexed keys: %w", err)
	}
	present := make(map[string]bool, len(indexed))
	for _, key := range indexed {
		present[key] = true
	}

	snapshot := s.catalog.Snapshot()
	missing := make([]domain.VectorRecord, 0, snapshot.Len())
	for _, record := range snapshot.Records {
		if present[record.Key] {
			continue
		}
		missing = append(missing, record.VectorEntry())
	}
	logger.Debug("Sync: %d canonical, %d already indexed, %d to upsert",
		snapshot.Len(), snapshot.Len()-len(missing), len(missing))

	return s.upsert(ctx, missing, snapshot.Len()-len(missing))
}

// Rebuild clears the collection and re-upserts every canonical record.
// Needed after an embedding model change, which invalidates stored vectors.
func (s *SyncService) Rebuild(ctx context.Context) (*driving.SyncStatus, error) {
	if !s.runMu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	logger.Section("Index Rebuild")

	removed, err := s.vectorIndex.DeleteWhere(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("clear collection: %w", err)
	}
	logger.Debug("Rebuild: cleared %d indexed records", removed)

	snapshot := s.catalog.Snapshot()
	records := make([]domain.VectorRecord, 0, snapshot.Len())
	for _, record := range snapshot.Records {
		records = append(records, record.VectorEntry())
	}

	return s.upsert(ctx, records, 0)
}

// SyncSource re-syncs one source: its index entries are dropped and its
// current canonical records re-upserted. Used after source-scoped mutations.
func (s *SyncService) SyncSource(ctx context.Context, sourceID string) (*driving.SyncStatus, error) {
	if !s.runMu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	logger.Section("Source Sync")
	logger.Debug("Source: %s", sourceID)

	removed, err := s.vectorIndex.DeleteWhere(ctx, driven.SourceFilter(sourceID))
	if err != nil {
		return nil, fmt.Errorf("clear source %s: %w", sourceID, err)
	}
	logger.Debug("Source sync: cleared %d indexed records", removed)

	snapshot := s.catalog.Snapshot()
	records := make([]domain.VectorRecord, 0)
	for _, record := range snapshot.BySource(sourceID) {
		records = append(records, record.VectorEntry())
	}

	return s.upsert(ctx, records, 0)
}

// upsert writes records to the index while keeping the status current.
// Item-level embedding failures degrade to zero vectors inside the adapter;
// an error here means the index itself failed and is propagated.
func (s *SyncService) upsert(
	ctx context.Context, records []domain.VectorRecord, skipped int,
) (*driving.SyncStatus, error) {
	s.setStatus(driving.SyncStatus{Running: true, Skipped: skipped})

	count, err := s.vectorIndex.UpsertBatch(ctx, records)

	status := driving.SyncStatus{
		Indexed: count,
		Skipped: skipped,
		Failed:  len(records) - count,
	}
	s.setStatus(status)

	if err != nil {
		logger.Warn("Sync: %d of %d records indexed, error: %v", count, len(records), err)
		return &status, fmt.Errorf("upsert batch: %w", err)
	}
	logger.Info("Sync complete: %d indexed, %d skipped", status.Indexed, status.Skipped)
	return &status, nil
}

func (s *SyncService) setStatus(status driving.SyncStatus) {
	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
}
