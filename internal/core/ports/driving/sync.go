package driving

import "context"

// SyncStatus reports the progress of an index sync.
type SyncStatus struct {
	// Running is true while a sync is in flight.
	Running bool

	// Indexed counts records upserted into the vector index.
	Indexed int

	// Skipped counts records left untouched (already indexed, unchanged).
	Skipped int

	// Failed counts records that could not be indexed.
	Failed int
}

// IndexSyncer keeps the vector index consistent with the canonical catalog.
type IndexSyncer interface {
	// Sync diffs the canonical catalog against the indexed keys and
	// upserts missing records. Already-indexed keys are skipped.
	Sync(ctx context.Context) (*SyncStatus, error)

	// Rebuild clears the collection and re-upserts every canonical record.
	Rebuild(ctx context.Context) (*SyncStatus, error)

	// SyncSource re-syncs a single source: deletes its index entries and
	// upserts its current canonical records.
	SyncSource(ctx context.Context, sourceID string) (*SyncStatus, error)

	// Status returns the current sync status.
	Status() SyncStatus
}
