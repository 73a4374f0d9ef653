// Package domain defines the core business entities for Lectio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded course document and its processing state
//   - Chunk: A sentence-bounded slice of a document, the retrieval unit
//   - VectorRecord: Chunk metadata keyed by its position in a vector index
//   - RetrievedHit: A ranked similarity-search result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
