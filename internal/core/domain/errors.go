package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the requester does not own the target source.
	ErrForbidden = errors.New("forbidden")

	// ErrProtectedSource indicates an operation is not allowed on a shared source.
	// The two shared sources can be relabelled but never deleted.
	ErrProtectedSource = errors.New("protected source")

	// ErrSyncInProgress indicates an index sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	// Semantic similarity search is disabled.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (constraint reranking) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
