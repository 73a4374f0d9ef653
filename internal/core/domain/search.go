package domain

// RetrievedHit is one ranked result from a similarity search.
// Similarity is the canonical score; Distance is derived from it.
type RetrievedHit struct {
	// DocumentID identifies the index the hit came from.
	DocumentID string `json:"document_id"`

	// VectorID is the matched vector's position in that index.
	VectorID int64 `json:"vector_id"`

	// Similarity is the cosine similarity in [-1, 1], higher is better.
	Similarity float32 `json:"similarity"`

	// Record is a copy of the chunk metadata for the matched vector.
	Record VectorRecord `json:"record"`
}

// Distance converts the hit's similarity to a distance-flavoured score.
// Cosine distance = 1 - cosine similarity; lower is better.
func (h RetrievedHit) Distance() float32 {
	return 1 - h.Similarity
}

// Less orders hits by similarity descending, with deterministic
// tie-breaking: lower document ID first, then lower vector ID.
func (h RetrievedHit) Less(other RetrievedHit) bool {
	if h.Similarity != other.Similarity {
		return h.Similarity > other.Similarity
	}
	if h.DocumentID != other.DocumentID {
		return h.DocumentID < other.DocumentID
	}
	return h.VectorID < other.VectorID
}

// QueryOptions configures a course-scoped (multi-document) query.
type QueryOptions struct {
	// PerDocumentK is how many candidates each document's index returns.
	// It should be at least TotalK so a single highly relevant document
	// cannot be starved by the per-document cap.
	PerDocumentK int

	// TotalK is the size of the merged result list.
	TotalK int
}
