package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/core/ports/driving"
	"github.com/atelier-labs/showroom/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultSearchLimit is used when the caller does not specify one.
const defaultSearchLimit = 5

// SearchService runs the staged retrieval pipeline: substring match on the
// canonical catalog, vector similarity fallback, LLM constraint rerank.
type SearchService struct {
	catalog     driving.CatalogService
	vectorIndex driven.VectorIndex
	llmService  driven.LLMService
}

// NewSearchService creates a search service. The vectorIndex and llmService
// parameters are optional (can be nil); missing stages degrade gracefully.
func NewSearchService(
	catalog driving.CatalogService,
	vectorIndex driven.VectorIndex,
	llmService driven.LLMService,
) *SearchService {
	return &SearchService{
		catalog:     catalog,
		vectorIndex: vectorIndex,
		llmService:  llmService,
	}
}

// Search answers a free-text product query.
//
// Substring hits on name or article take precedence over vector similarity:
// for short, specific queries an exact token is a stronger signal than
// embedding distance. The rerank stage runs on whichever candidate set
// survives, and falls back to pre-rerank order on any failure.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	allowed, err := s.allowedSources(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve source filter: %w", err)
	}

	snapshot := s.catalog.Snapshot()

	// Stage 1: case-insensitive substring on display name and article.
	candidates := s.textMatch(snapshot, query, allowed)
	logger.Debug("Text stage: %d candidates", len(candidates))

	// Stage 2: vector similarity, only when stage 1 found nothing.
	if len(candidates) == 0 {
		candidates, err = s.vectorMatch(ctx, snapshot, query, allowed)
		if err != nil {
			return nil, err
		}
		logger.Debug("Vector stage: %d candidates", len(candidates))
	}

	if len(candidates) == 0 {
		logger.Info("No results for %q", query)
		return []domain.SearchResult{}, nil
	}

	// Stage 3: LLM constraint rerank, best-effort.
	if s.llmService != nil && !opts.DisableRerank {
		if reranked := s.rerank(ctx, query, candidates); len(reranked) > 0 {
			candidates = reranked
			logger.Debug("Rerank stage: %d survivors", len(candidates))
		} else {
			logger.Debug("Rerank skipped or failed, keeping pre-rerank order")
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	logger.Info("Final results: %d", len(candidates))
	return candidates, nil
}

// allowedSources resolves the visibility and source restrictions into a set
// of permitted source ids. A nil return means no restriction.
func (s *SearchService) allowedSources(
	ctx context.Context, opts domain.SearchOptions,
) (map[string]bool, error) {
	if opts.ViewerID == "" && len(opts.SourceIDs) == 0 {
		return nil, nil
	}

	allowed := make(map[string]bool)

	if opts.ViewerID != "" {
		sources, err := s.catalog.ListSources(ctx, opts.ViewerID)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			allowed[source.ID] = true
		}
		if len(opts.SourceIDs) > 0 {
			requested := make(map[string]bool, len(opts.SourceIDs))
			for _, id := range opts.SourceIDs {
				requested[id] = true
			}
			for id := range allowed {
				if !requested[id] {
					delete(allowed, id)
				}
			}
		}
		return allowed, nil
	}

	for _, id := range opts.SourceIDs {
		allowed[id] = true
	}
	return allowed, nil
}

// textMatch scans the snapshot for substring hits on name or article.
// Catalog load order is preserved, which keeps earlier-priority sources
// ahead of later ones.
func (s *SearchService) textMatch(
	snapshot *domain.Catalog, query string, allowed map[string]bool,
) []domain.SearchResult {
	needle := strings.ToLower(query)

	var results []domain.SearchResult
	for _, record := range snapshot.Records {
		if allowed != nil && !allowed[record.SourceID] {
			continue
		}
		if strings.Contains(strings.ToLower(record.DisplayName), needle) ||
			strings.Contains(strings.ToLower(record.Article), needle) {
			results = append(results, domain.SearchResult{
				Product: record,
				Stage:   domain.StageText,
			})
		}
	}
	return results
}

// vectorMatch queries the vector index and maps hits back onto canonical
// records. Keys missing from the snapshot (stale index entries) are dropped.
func (s *SearchService) vectorMatch(
	ctx context.Context, snapshot *domain.Catalog, query string, allowed map[string]bool,
) ([]domain.SearchResult, error) {
	if s.vectorIndex == nil {
		logger.Warn("Vector search unavailable: vector index is nil")
		return nil, nil
	}

	var filter driven.MetadataFilter
	if allowed != nil {
		if len(allowed) == 0 {
			return nil, nil
		}
		ids := make([]string, 0, len(allowed))
		for id := range allowed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		filter = driven.SourceFilter(ids...)
	}

	hits, err := s.vectorIndex.Query(ctx, query, rerankCandidateCap, filter)
	if err != nil {
		logger.Warn("Vector query failed: %v", err)
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		record := snapshot.Get(hit.Key)
		if record == nil {
			logger.Debug("Stale index entry %q, skipping", hit.Key)
			continue
		}
		results = append(results, domain.SearchResult{
			Product:   record,
			Relevance: 1 - hit.Distance,
			Stage:     domain.StageVector,
		})
	}
	return results, nil
}
