package driven

import (
	"context"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// VectorIndex provides exact cosine similarity search over the vectors of
// exactly one document. Document isolation is the central invariant of the
// design: an index never stores vectors from more than one document, and
// cross-document queries are answered by merging independent searches.
type VectorIndex interface {
	// Add appends a batch of vectors with their chunk metadata and returns
	// the assigned vector IDs (current count, current count+1, ...).
	// Vectors are L2-normalized in place before storage so inner product
	// equals cosine similarity. All vectors must match the index dimension;
	// a mismatch fails the whole batch with domain.ErrDimensionMismatch.
	// The batch is atomic: concurrent searches observe all of it or none.
	Add(vectors [][]float32, records []domain.VectorRecord) ([]int64, error)

	// Search returns up to k hits ranked by similarity descending, ties
	// broken by ascending vector ID. An empty index yields empty results,
	// not an error.
	Search(query []float32, k int) ([]domain.RetrievedHit, error)

	// Persist writes the index state to durable storage. Writers use a
	// write-to-temp-then-rename discipline so concurrent loads never
	// observe a torn file.
	Persist() error

	// Count returns the number of stored vectors.
	Count() int

	// Dimensions returns the dimension the index was created with.
	Dimensions() int
}

// IndexRegistry owns the lifecycle of per-document vector indices:
// lazy creation, disk loading at startup, and whole-document deletion.
// Implementations must guarantee that at most one VectorIndex instance is
// ever live per document ID, even under concurrent creation requests.
type IndexRegistry interface {
	// GetOrCreate returns the in-memory index for the document if present,
	// otherwise attempts a disk load, otherwise constructs a new empty
	// index bound to the given dimension.
	GetOrCreate(ctx context.Context, documentID string, dimensions int) (VectorIndex, error)

	// Get returns the index for the document, or domain.ErrNotFound.
	// It never creates; this is the read path used by search.
	Get(ctx context.Context, documentID string) (VectorIndex, error)

	// Delete removes the in-memory entry and all durable files for the
	// document. Files are removed before the memory entry is dropped so a
	// crash between steps cannot leave ghost vectors serving queries.
	Delete(ctx context.Context, documentID string) error

	// LoadAll scans durable storage and loads every persisted document
	// index, so a restart does not require re-ingestion. A load failure
	// for one document must not abort loading the rest.
	LoadAll(ctx context.Context) error

	// DocumentIDs returns the IDs of all documents with a live index.
	DocumentIDs() []string

	// Close releases resources.
	Close() error
}
