package domain

// Stage identifies which pipeline stage produced a search result.
type Stage string

const (
	// StageText means the result came from substring matching on the
	// canonical catalog.
	StageText Stage = "text"

	// StageVector means the result came from vector similarity search.
	StageVector Stage = "vector"

	// StageRerank means the result survived the LLM constraint rerank.
	StageRerank Stage = "rerank"
)

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of results. Defaults to 5 when zero.
	Limit int

	// SourceIDs restricts results to specific sources. Empty means all.
	SourceIDs []string

	// ViewerID filters out sources invisible to the viewer. Empty means
	// no visibility filtering (trusted internal caller).
	ViewerID string

	// DisableRerank skips the LLM constraint rerank stage.
	DisableRerank bool
}

// SearchResult is a single ranked retrieval hit.
type SearchResult struct {
	// Product is the matched canonical record.
	Product *ProductRecord

	// Relevance is 1 - distance for vector hits (cosine-normalised);
	// zero for pure text matches, which carry no score.
	Relevance float64

	// Stage names the pipeline stage that produced the hit.
	Stage Stage
}
