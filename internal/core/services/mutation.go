package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/logger"
)

// Ensure MutationService implements the interface.
var _ driving.MutationService = (*MutationService)(nil)

// MutationService implements catalog writes. Every operation follows the
// same shape: validate, check ownership, write the source file, then rebuild
// the catalog and update the index. The file write is authoritative; index
// failures are reported in MutationResult.IndexErr, never as the operation
// error.
type MutationService struct {
	sourceStore driven.SourceStore
	catalog     driving.CatalogService
	syncer      driving.IndexSyncer
	vectorIndex driven.VectorIndex

	// mu serialises the rebuild-and-resync step across mutations so
	// interleaved operations cannot lose updates to the canonical map.
	mu sync.Mutex
}

// NewMutationService creates a mutation service. The syncer and vectorIndex
// parameters are optional (can be nil); without them mutations still persist
// and rebuild the catalog, only index freshness is lost.
func NewMutationService(
	sourceStore driven.SourceStore,
	catalog driving.CatalogService,
	syncer driving.IndexSyncer,
	vectorIndex driven.VectorIndex,
) *MutationService {
	return &MutationService{
		sourceStore: sourceStore,
		catalog:     catalog,
		syncer:      syncer,
		vectorIndex: vectorIndex,
	}
}

// ImportSource registers a new source from raw records.
func (m *MutationService) ImportSource(
	ctx context.Context, name string, records []domain.RawProduct, ownerID string,
) (*driving.MutationResult, error) {
	logger.Section("Import Source")

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("source name is required: %w", domain.ErrInvalidInput)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner identity is required: %w", domain.ErrInvalidInput)
	}
	if records == nil {
		return nil, fmt.Errorf("records must be an array: %w", domain.ErrInvalidInput)
	}

	id := domain.Slugify(name)
	if id == "" {
		id = uuid.NewString()
		logger.Debug("Name %q slugifies to nothing, using generated id %s", name, id)
	}

	if _, err := m.sourceStore.Get(ctx, id); err == nil {
		return nil, fmt.Errorf("source %q: %w", id, domain.ErrAlreadyExists)
	}

	position, err := m.nextPosition(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	source := domain.Source{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source %s: %w", id, err)
	}
	if err := m.sourceStore.SaveRecords(ctx, id, records); err != nil {
		return nil, fmt.Errorf("save records for %s: %w", id, err)
	}
	logger.Info("Imported source %s: %d raw records", id, len(records))

	return m.resyncSource(ctx, id), nil
}

// RenameSource relabels a source. Shared sources keep their privileged ids;
// for owned sources a changed slug moves the file and re-syncs the index
// under the new id.
func (m *MutationService) RenameSource(
	ctx context.Context, sourceID, newName, requesterID string,
) (*driving.MutationResult, error) {
	logger.Section("Rename Source")

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("new name is required: %w", domain.ErrInvalidInput)
	}
	if requesterID == "" {
		return nil, fmt.Errorf("requester identity is required: %w", domain.ErrInvalidInput)
	}

	source, err := m.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", sourceID, err)
	}
	if !source.ModifiableBy(requesterID) {
		return nil, fmt.Errorf("source %q is owned by another identity: %w",
			sourceID, domain.ErrForbidden)
	}

	newID := sourceID
	if !source.Shared() {
		if slug := domain.Slugify(newName); slug != "" {
			newID = slug
		}
	}
	if newID != sourceID {
		if _, err := m.sourceStore.Get(ctx, newID); err == nil {
			return nil, fmt.Errorf("source %q: %w", newID, domain.ErrAlreadyExists)
		}
	}

	if err := m.sourceStore.Rename(ctx, sourceID, newID, newName); err != nil {
		return nil, fmt.Errorf("rename source %s: %w", sourceID, err)
	}
	logger.Info("Renamed source %s -> %s (%q)", sourceID, newID, newName)

	// A pure relabel leaves records and index entries untouched.
	if newID == sourceID {
		return &driving.MutationResult{SourceID: sourceID}, nil
	}

	result := m.resyncSource(ctx, newID)
	if m.vectorIndex != nil && result.IndexErr == nil {
		if _, err := m.vectorIndex.DeleteWhere(ctx, driven.SourceFilter(sourceID)); err != nil {
			result.IndexErr = fmt.Errorf("drop index entries for %s: %w", sourceID, err)
		}
	}
	return result, nil
}

// DeleteSource removes a source, its file, its canonical records and its
// index entries.
func (m *MutationService) DeleteSource(
	ctx context.Context, sourceID, requesterID string,
) (*driving.MutationResult, error) {
	logger.Section("Delete Source")

	if requesterID == "" {
		return nil, fmt.Errorf("requester identity is required: %w", domain.ErrInvalidInput)
	}

	source, err := m.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", sourceID, err)
	}
	if source.Protected() {
		return nil, fmt.Errorf("source %q: %w", sourceID, domain.ErrProtectedSource)
	}
	if !source.ModifiableBy(requesterID) {
		return nil, fmt.Errorf("source %q is owned by another identity: %w",
			sourceID, domain.ErrForbidden)
	}

	if err := m.sourceStore.Delete(ctx, sourceID); err != nil {
		return nil, fmt.Errorf("delete source %s: %w", sourceID, err)
	}
	logger.Info("Deleted source %s", sourceID)

	m.mu.Lock()
	defer m.mu.Unlock()

	result := &driving.MutationResult{SourceID: sourceID}
	if _, err := m.catalog.Rebuild(ctx); err != nil {
		result.IndexErr = fmt.Errorf("rebuild catalog: %w", err)
		return result, nil
	}
	if m.vectorIndex != nil {
		if _, err := m.vectorIndex.DeleteWhere(ctx, driven.SourceFilter(sourceID)); err != nil {
			result.IndexErr = fmt.Errorf("drop index entries for %s: %w", sourceID, err)
		}
	}
	return result, nil
}

// UpdateField applies a field patch to one record. The raw entry is located
// by re-deriving keys from the source file, not by a stored offset, so edits
// survive manual file reshuffles.
func (m *MutationService) UpdateField(
	ctx context.Context, key string, patch driving.FieldPatch, requesterID string,
) (*driving.MutationResult, error) {
	logger.Section("Update Field")

	if patch.Price == nil && patch.AddImage == "" && patch.RemoveImage == "" {
		return nil, fmt.Errorf("empty field patch: %w", domain.ErrInvalidInput)
	}

	record, raws, idx, err := m.resolveRecord(ctx, key, requesterID)
	if err != nil {
		return nil, err
	}

	raw := raws[idx]
	if patch.Price != nil {
		raw.SetPrice(*patch.Price)
		logger.Debug("Record %s: price set to %s", key, patch.Price)
	}
	if patch.AddImage != "" || patch.RemoveImage != "" {
		images := slices.Clone(record.Images)
		if patch.AddImage != "" && !slices.Contains(images, patch.AddImage) {
			images = append(images, patch.AddImage)
		}
		if patch.RemoveImage != "" {
			if i := slices.Index(images, patch.RemoveImage); i >= 0 {
				// Removing the primary promotes the next image.
				images = slices.Delete(images, i, i+1)
			}
		}
		raw.SetImages(images)
		logger.Debug("Record %s: %d images", key, len(images))
	}

	if err := m.sourceStore.SaveRecords(ctx, record.SourceID, raws); err != nil {
		return nil, fmt.Errorf("save records for %s: %w", record.SourceID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := &driving.MutationResult{SourceID: record.SourceID}
	if _, err := m.catalog.Rebuild(ctx); err != nil {
		result.IndexErr = fmt.Errorf("rebuild catalog: %w", err)
		return result, nil
	}
	if m.vectorIndex != nil {
		updated := m.catalog.Snapshot().Get(key)
		if updated != nil {
			if err := m.vectorIndex.Upsert(ctx, updated.VectorEntry()); err != nil {
				result.IndexErr = fmt.Errorf("reindex %s: %w", key, err)
			} else {
				result.Indexed = 1
			}
		}
	}
	return result, nil
}

// DeleteProduct removes one record from its source file, the canonical
// catalog and the index.
func (m *MutationService) DeleteProduct(
	ctx context.Context, key, requesterID string,
) (*driving.MutationResult, error) {
	logger.Section("Delete Product")

	record, raws, idx, err := m.resolveRecord(ctx, key, requesterID)
	if err != nil {
		return nil, err
	}

	raws = slices.Delete(raws, idx, idx+1)
	if err := m.sourceStore.SaveRecords(ctx, record.SourceID, raws); err != nil {
		return nil, fmt.Errorf("save records for %s: %w", record.SourceID, err)
	}
	logger.Info("Deleted record %s from source %s", key, record.SourceID)

	m.mu.Lock()
	defer m.mu.Unlock()

	result := &driving.MutationResult{SourceID: record.SourceID}
	if _, err := m.catalog.Rebuild(ctx); err != nil {
		result.IndexErr = fmt.Errorf("rebuild catalog: %w", err)
		return result, nil
	}
	if m.vectorIndex != nil {
		if err := m.vectorIndex.DeleteByKey(ctx, key); err != nil {
			result.IndexErr = fmt.Errorf("unindex %s: %w", key, err)
		}
	}
	return result, nil
}

// resolveRecord maps a canonical key to its source, checks ownership, and
// locates the raw entry by the same key derivation used at load time.
func (m *MutationService) resolveRecord(
	ctx context.Context, key, requesterID string,
) (*domain.ProductRecord, []domain.RawProduct, int, error) {
	if requesterID == "" {
		return nil, nil, 0, fmt.Errorf("requester identity is required: %w", domain.ErrInvalidInput)
	}

	record := m.catalog.Snapshot().Get(key)
	if record == nil {
		return nil, nil, 0, fmt.Errorf("product %q: %w", key, domain.ErrNotFound)
	}

	source, err := m.sourceStore.Get(ctx, record.SourceID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("source %q: %w", record.SourceID, err)
	}
	if !source.ModifiableBy(requesterID) {
		return nil, nil, 0, fmt.Errorf("source %q is owned by another identity: %w",
			record.SourceID, domain.ErrForbidden)
	}

	raws, err := m.sourceStore.LoadRecords(ctx, record.SourceID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load records for %s: %w", record.SourceID, err)
	}
	for i, raw := range raws {
		if raw.Key() == key {
			return record, raws, i, nil
		}
	}
	return nil, nil, 0, fmt.Errorf("raw entry for %q missing from source file: %w",
		key, domain.ErrNotFound)
}

// resyncSource rebuilds the catalog and re-syncs one source's index entries.
// Called after the durable write succeeded, so failures here are reported in
// the result rather than as errors.
func (m *MutationService) resyncSource(ctx context.Context, sourceID string) *driving.MutationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := &driving.MutationResult{SourceID: sourceID}
	if _, err := m.catalog.Rebuild(ctx); err != nil {
		result.IndexErr = fmt.Errorf("rebuild catalog: %w", err)
		return result
	}
	if m.syncer != nil {
		status, err := m.syncer.SyncSource(ctx, sourceID)
		if err != nil {
			result.IndexErr = fmt.Errorf("sync source %s: %w", sourceID, err)
			return result
		}
		result.Indexed = status.Indexed
	}
	return result
}

// nextPosition returns the load position for a newly imported source.
// User imports slot in before the shared sources so they win key collisions.
func (m *MutationService) nextPosition(ctx context.Context) (int, error) {
	sources, err := m.sourceStore.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sources: %w", err)
	}
	next := 0
	for _, source := range sources {
		if source.Shared() {
			continue
		}
		if source.Position >= next {
			next = source.Position + 1
		}
	}
	return next, nil
}
