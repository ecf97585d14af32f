package driven

import (
	"context"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

// MetadataFilter restricts a similarity query to records whose metadata
// matches every listed predicate. A single-element value list is an
// exact-match predicate; multiple elements mean set membership.
type MetadataFilter map[string][]string

// SourceFilter builds the common filter restricting to one or more sources.
func SourceFilter(sourceIDs ...string) MetadataFilter {
	if len(sourceIDs) == 0 {
		return nil
	}
	return MetadataFilter{"source_id": sourceIDs}
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Key is the matched record key.
	Key string

	// Metadata is the stored denormalised record subset.
	Metadata map[string]string

	// Distance is the cosine distance; lower means more similar.
	Distance float64
}

// VectorIndex is a persistent named collection mapping record keys to
// {vector, document text, metadata}.
//
// The index never holds two records for one key: Upsert replaces any prior
// record. Connection failures are propagated (not swallowed) so the caller
// can decide whether to retry the sync or abort.
type VectorIndex interface {
	// Upsert inserts or replaces one record, embedding its document text.
	Upsert(ctx context.Context, record domain.VectorRecord) error

	// UpsertBatch inserts or replaces records in bulk. Partial failure of
	// one record does not abort the batch; the first item error is
	// reported alongside the count of records written.
	UpsertBatch(ctx context.Context, records []domain.VectorRecord) (int, error)

	// Query embeds text and returns the n nearest records matching the
	// filter, ordered by ascending distance.
	Query(ctx context.Context, text string, n int, filter MetadataFilter) ([]VectorHit, error)

	// DeleteByKey removes the record for a key. Missing keys are not an error.
	DeleteByKey(ctx context.Context, key string) error

	// DeleteWhere removes all records matching the filter and returns how
	// many were removed. A nil filter matches every record. Used for
	// source-scoped re-sync and full rebuilds.
	DeleteWhere(ctx context.Context, filter MetadataFilter) (int, error)

	// Keys returns all indexed record keys.
	Keys(ctx context.Context) ([]string, error)

	// Count returns the total number of indexed records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
