package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must degrade rather than fail: when the backing service
// errors for a text (or returns a vector of unexpected dimensionality), the
// adapter substitutes a zero vector of the configured size so indexing can
// proceed for the remaining items. EmbedBatch therefore always returns one
// vector per input text, in order.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result has
	// exactly len(texts) entries in input order; failed items carry zero
	// vectors. An empty input returns an empty result.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size, fixed per model.
	// This must match the VectorIndex collection configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
