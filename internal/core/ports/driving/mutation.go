package driving

import (
	"context"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

// FieldPatch describes a single-record edit. Exactly the non-nil parts are
// applied.
type FieldPatch struct {
	// Price sets the record price (amount + currency).
	Price *domain.Price

	// AddImage appends an image URL to the record's image list.
	AddImage string

	// RemoveImage deletes an image URL from the record's image list.
	RemoveImage string
}

// MutationResult reports the outcome of a catalog mutation. The durable file
// write and the best-effort index update are reported separately: a mutation
// with IndexErr set still succeeded on disk.
type MutationResult struct {
	// SourceID is the affected source.
	SourceID string

	// Indexed counts vector records written during the follow-up sync.
	Indexed int

	// IndexErr carries the index update failure, if any.
	IndexErr error
}

// MutationService exposes catalog write operations. All operations except
// listing require an authenticated identity; ownership rules follow
// domain.Source.
type MutationService interface {
	// ImportSource registers a new source from raw records, persists the
	// per-source file, rebuilds the catalog and syncs the index.
	ImportSource(ctx context.Context, name string, records []domain.RawProduct, ownerID string) (*MutationResult, error)

	// RenameSource relabels a source. When the slugified id changes, the
	// on-disk file moves and the source's index entries are re-synced
	// under the new id.
	RenameSource(ctx context.Context, sourceID, newName, requesterID string) (*MutationResult, error)

	// DeleteSource removes a source, its file, its canonical records and
	// its index entries. Shared sources are protected.
	DeleteSource(ctx context.Context, sourceID, requesterID string) (*MutationResult, error)

	// UpdateField applies a field patch to one record, rewriting the
	// owning source file and re-indexing that key.
	UpdateField(ctx context.Context, key string, patch FieldPatch, requesterID string) (*MutationResult, error)

	// DeleteProduct removes one record from its source file, the
	// canonical catalog and the index.
	DeleteProduct(ctx context.Context, key, requesterID string) (*MutationResult, error)
}
