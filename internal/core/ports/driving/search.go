package driving

import (
	"context"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

// SearchService answers free-text product queries against the canonical
// catalog and the vector index.
type SearchService interface {
	// Search performs staged retrieval: substring match, vector
	// similarity fallback, LLM constraint rerank.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
