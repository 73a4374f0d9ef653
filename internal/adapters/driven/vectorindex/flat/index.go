// Package flat provides an exact, per-document vector index with file
// persistence.
//
// Each Index owns the vectors of exactly one document. Vectors are
// L2-normalized at insertion so the inner product of two stored vectors is
// their cosine similarity. Search is a brute-force scan: exact results and
// deterministic ordering matter more here than approximate-index speed, and
// per-document indices stay small.
package flat

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an append-only cosine similarity index for a single document.
//
// Reads (Search, Count) take a read lock; Add takes the write lock, so a
// batch becomes visible to searches atomically. Vector IDs are positions
// in the dense vector slice, assigned at insertion and never reused unless
// the whole index is rebuilt.
type Index struct {
	mu         sync.RWMutex
	documentID string
	dimensions int
	dir        string
	vectors    [][]float32
	records    []domain.VectorRecord
}

// New constructs an empty index for a document, bound to a fixed dimension.
// dir is the directory durable artifacts are written into.
func New(documentID string, dimensions int, dir string) (*Index, error) {
	if err := validateDocumentID(documentID); err != nil {
		return nil, err
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	return &Index{
		documentID: documentID,
		dimensions: dimensions,
		dir:        dir,
	}, nil
}

// DocumentID returns the ID of the document this index belongs to.
func (ix *Index) DocumentID() string {
	return ix.documentID
}

// Dimensions returns the dimension the index was created with.
func (ix *Index) Dimensions() int {
	return ix.dimensions
}

// Count returns the number of stored vectors.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Add appends a batch of vectors and their chunk metadata.
// The whole batch is validated before anything is stored, so a dimension
// mismatch anywhere fails the batch without partial state. Input vectors
// are L2-normalized in place.
func (ix *Index) Add(vectors [][]float32, records []domain.VectorRecord) ([]int64, error) {
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors but %d records",
			domain.ErrInvalidInput, len(vectors), len(records))
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	for i, v := range vectors {
		if len(v) != ix.dimensions {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, index %q requires %d",
				domain.ErrDimensionMismatch, i, len(v), ix.documentID, ix.dimensions)
		}
	}

	for _, v := range vectors {
		normalize(v)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ids := make([]int64, len(vectors))
	base := int64(len(ix.vectors))
	for i := range vectors {
		id := base + int64(i)
		rec := records[i]
		rec.VectorID = id
		rec.DocumentID = ix.documentID
		ix.vectors = append(ix.vectors, vectors[i])
		ix.records = append(ix.records, rec)
		ids[i] = id
	}

	return ids, nil
}

// Search returns up to k hits ranked by cosine similarity descending,
// ties broken by ascending vector ID. An empty index yields no hits.
func (ix *Index) Search(query []float32, k int) ([]domain.RetrievedHit, error) {
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, index %q requires %d",
			domain.ErrDimensionMismatch, len(query), ix.documentID, ix.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}

	// Normalize a copy: callers may reuse the query vector across indices.
	q := make([]float32, len(query))
	copy(q, query)
	normalize(q)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]domain.RetrievedHit, 0, len(ix.vectors))
	for id, v := range ix.vectors {
		hits = append(hits, domain.RetrievedHit{
			DocumentID: ix.documentID,
			VectorID:   int64(id),
			Similarity: dot(q, v),
			Record:     ix.records[id],
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Less(hits[j]) })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// snapshot copies the index state for persistence under the read lock.
func (ix *Index) snapshot() ([][]float32, []domain.VectorRecord) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	vectors := make([][]float32, len(ix.vectors))
	copy(vectors, ix.vectors)
	records := make([]domain.VectorRecord, len(ix.records))
	copy(records, ix.records)
	return vectors, records
}

// normalize scales v to unit length in place. Zero vectors are left
// untouched; they score zero similarity against everything.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

// dot computes the inner product of two equal-length vectors.
// For unit-length vectors this is the cosine similarity.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// validateDocumentID rejects IDs that cannot safely name index files.
func validateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("%w: document id %q contains path separators", domain.ErrInvalidInput, id)
	}
	return nil
}
