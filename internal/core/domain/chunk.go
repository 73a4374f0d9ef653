package domain

// Chunk is a contiguous, sentence-bounded slice of a document's text.
// It is the atomic unit of retrieval. Chunks are immutable once created;
// deletion happens only at whole-document granularity.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// ChunkIndex is the 0-based, dense position within the document.
	ChunkIndex int

	// Text is the chunk content, including any overlap sentences
	// carried over from the previous chunk.
	Text string

	// TokenEstimate is the approximate token count. This is a whitespace
	// word-count proxy, not a real tokenizer; treat it as an approximation.
	TokenEstimate int

	// SentenceCount is the number of sentences in the chunk.
	SentenceCount int
}

// VectorRecord is the metadata stored alongside one vector in a document's
// index. VectorID is the vector's position within that index, assigned at
// insertion time and stable for the lifetime of the on-disk index. It is
// the join key between similarity scores and chunk metadata.
type VectorRecord struct {
	// VectorID is the 0-based position within the document's index.
	VectorID int64 `json:"vector_id"`

	// DocumentID identifies the owning document. A vector index never
	// holds records for more than one document.
	DocumentID string `json:"document_id"`

	// ChunkIndex mirrors Chunk.ChunkIndex.
	ChunkIndex int `json:"chunk_index"`

	// Text mirrors Chunk.Text, kept so retrieval results can be fed to
	// prompt construction without a second lookup.
	Text string `json:"text"`

	// TokenEstimate mirrors Chunk.TokenEstimate.
	TokenEstimate int `json:"token_estimate"`

	// SentenceCount mirrors Chunk.SentenceCount.
	SentenceCount int `json:"sentence_count"`
}

// RecordForChunk builds the VectorRecord stored for a chunk at the given
// index position. The record copies the chunk's fields so callers can never
// mutate index-internal state through a returned result.
func RecordForChunk(c Chunk, vectorID int64) VectorRecord {
	return VectorRecord{
		VectorID:      vectorID,
		DocumentID:    c.DocumentID,
		ChunkIndex:    c.ChunkIndex,
		Text:          c.Text,
		TokenEstimate: c.TokenEstimate,
		SentenceCount: c.SentenceCount,
	}
}
