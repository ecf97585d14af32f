package driving

import (
	"context"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

// CatalogService provides read access to the canonical catalog.
type CatalogService interface {
	// Snapshot returns the current canonical catalog snapshot.
	Snapshot() *domain.Catalog

	// Get retrieves a canonical record by key.
	Get(key string) (*domain.ProductRecord, error)

	// ListSources returns sources visible to the viewer, in load order.
	ListSources(ctx context.Context, viewerID string) ([]domain.Source, error)

	// Rebuild re-runs the normaliser over all registered sources and
	// atomically swaps in the new snapshot.
	Rebuild(ctx context.Context) (*domain.Catalog, error)
}
