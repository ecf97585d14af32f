package driven

import (
	"context"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

// SourceStore persists source metadata and the raw per-source record files.
// Each source is one file containing a JSON array of loosely-typed product
// objects; unknown fields are preserved across rewrites.
type SourceStore interface {
	// Save stores or updates source metadata.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves source metadata by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all sources ordered by load position.
	List(ctx context.Context) ([]domain.Source, error)

	// Delete removes the source metadata and its record file.
	Delete(ctx context.Context, id string) error

	// Rename moves the record file and metadata to a new id and name.
	// When newID equals the old id only the label changes.
	Rename(ctx context.Context, id, newID, newName string) error

	// LoadRecords reads the raw records of a source.
	LoadRecords(ctx context.Context, id string) ([]domain.RawProduct, error)

	// SaveRecords rewrites the raw records of a source atomically.
	SaveRecords(ctx context.Context, id string, records []domain.RawProduct) error
}
