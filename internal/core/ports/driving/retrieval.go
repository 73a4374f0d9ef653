package driving

import (
	"context"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// RetrievalService orchestrates the retrieval engine: chunking, embedding
// and index writes on ingestion; embedding, per-document search and merge
// on queries.
type RetrievalService interface {
	// Ingest chunks, embeds and indexes a document's extracted text, then
	// persists the affected index. Returns the number of chunks stored.
	// Embedding failure or cancellation aborts with no partial index state.
	Ingest(ctx context.Context, documentID, text string) (int, error)

	// Query searches a single document's index. An absent index is not an
	// error: it yields empty results, signalling a "not yet processed"
	// state to the caller.
	Query(ctx context.Context, documentID, text string, k int) ([]domain.RetrievedHit, error)

	// QueryMany embeds the query once, fans out an independent search to
	// each listed document's index, and merges the ranked results.
	QueryMany(ctx context.Context, documentIDs []string, text string, opts domain.QueryOptions) ([]domain.RetrievedHit, error)

	// DeleteDocument removes the document's index, durable artifacts and
	// catalog entry.
	DeleteDocument(ctx context.Context, documentID string) error
}
