// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceStore: Raw per-source record persistence (JSON files on disk)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Persistent similarity search. Without it, retrieval is
//     catalog-substring only.
//   - EmbeddingService: Generates vector embeddings for the VectorIndex.
//   - LLMService: Constraint reranking. Without it, the pre-rerank order
//     is returned.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
