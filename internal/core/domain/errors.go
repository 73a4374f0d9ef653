package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// A missing vector index is NOT reported with this error on the
	// query path; an absent index is an expected steady state before
	// processing finishes and yields an empty result instead.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, including
	// configuration errors such as overlap >= target chunk size.
	// Never retried; always surfaced to the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates a vector's dimension does not match
	// the dimension the index was created with. Vectors are never
	// silently reshaped.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptIndex indicates a persisted index failed integrity checks
	// on load. Fatal for the affected document only.
	ErrCorruptIndex = errors.New("corrupt index file")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and queries are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIngestionAborted indicates ingestion stopped before any vectors
	// were committed, e.g. on embedding failure or cancellation.
	ErrIngestionAborted = errors.New("ingestion aborted")
)
