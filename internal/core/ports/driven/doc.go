// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-width float vectors
//   - VectorIndex: Per-document similarity search structure
//   - IndexRegistry: Lifecycle owner for per-document vector indices
//   - Normaliser: Converts a raw file into plain text for chunking
//   - ConfigStore: Persisted key/value configuration
//
// # Optional Interfaces
//
//   - DocumentStore: Document catalog persistence. When nil, ingestion
//     still works but documents carry no tracked status and course-scoped
//     queries must be given explicit document IDs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
