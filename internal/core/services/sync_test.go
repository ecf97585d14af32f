package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectormem "github.com/atelier-labs/showroom/internal/adapters/driven/vector/memory"
	"github.com/atelier-labs/showroom/internal/core/domain"
)

func TestSyncService_Sync_IndexesAll(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	index := vectormem.NewIndex()
	syncer := NewSyncService(catalog, index)

	status, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Snapshot().Len(), status.Indexed)
	assert.Zero(t, status.Skipped)
	assert.Zero(t, status.Failed)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Snapshot().Len(), count)
}

func TestSyncService_Sync_SkipsIndexedKeys(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	index := vectormem.NewIndex()
	syncer := NewSyncService(catalog, index)
	_, err = syncer.Sync(ctx)
	require.NoError(t, err)

	status, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Indexed)
	assert.Equal(t, catalog.Snapshot().Len(), status.Skipped)
}

func TestSyncService_Sync_IndexesOnlyNewRecords(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	index := vectormem.NewIndex()
	syncer := NewSyncService(catalog, index)
	_, err = syncer.Sync(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SaveRecords(ctx, "my-import", []domain.RawProduct{
		{"id": "red-chair", "name": "Red Chair (mine)"},
		{"id": "green-stool", "name": "Green Stool"},
	}))
	_, err = catalog.Rebuild(ctx)
	require.NoError(t, err)

	status, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Indexed)
}

func TestSyncService_Rebuild(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	index := vectormem.NewIndex()
	syncer := NewSyncService(catalog, index)
	_, err = syncer.Sync(ctx)
	require.NoError(t, err)

	// Shrink the catalog; Rebuild must drop the stale entries.
	require.NoError(t, store.SaveRecords(ctx, domain.SharedSourceCatalog, []domain.RawProduct{}))
	_, err = catalog.Rebuild(ctx)
	require.NoError(t, err)

	status, err := syncer.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Snapshot().Len(), status.Indexed)

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Snapshot().Len(), count)
}

func TestSyncService_SyncSource(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	index := vectormem.NewIndex()
	syncer := NewSyncService(catalog, index)
	_, err = syncer.Sync(ctx)
	require.NoError(t, err)
	before, err := index.Count(ctx)
	require.NoError(t, err)

	status, err := syncer.SyncSource(ctx, "my-import")
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Snapshot().BySource("my-import")), status.Indexed)

	after, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSyncService_Status(t *testing.T) {
	ctx := context.Background()
	store := seedSources(t)
	catalog := NewCatalogService(store, "EUR")
	_, err := catalog.Rebuild(ctx)
	require.NoError(t, err)

	syncer := NewSyncService(catalog, vectormem.NewIndex())
	assert.Zero(t, syncer.Status().Indexed)

	status, err := syncer.Sync(ctx)
	require.NoError(t, err)

	assert.False(t, syncer.Status().Running)
	assert.Equal(t, status.Indexed, syncer.Status().Indexed)
}
