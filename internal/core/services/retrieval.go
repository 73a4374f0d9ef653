package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driving"
	"github.com/lectio-labs/lectio-cli/internal/logger"
	"github.com/lectio-labs/lectio-cli/internal/postprocessors/chunker"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultQueryK is the number of hits returned when the caller does not
// ask for a specific k.
const DefaultQueryK = 5

// RetrievalService orchestrates the retrieval pipeline: chunk, embed and
// index on ingestion; embed, search and merge on queries.
//
// Each document's vectors live in their own index, so a query against one
// document can never surface another document's content. Cross-document
// queries are answered by fanning out to the individual indices and
// merging the ranked hits.
type RetrievalService struct {
	chunker   *chunker.Processor
	embedding driven.EmbeddingService
	registry  driven.IndexRegistry
	docStore  driven.DocumentStore

	mu          sync.Mutex
	ingestLocks map[string]*sync.Mutex
}

// NewRetrievalService creates a new retrieval service.
// The docStore parameter is optional (can be nil); without it, ingestion
// still builds and persists indices but records no catalog status.
func NewRetrievalService(
	proc *chunker.Processor,
	embedding driven.EmbeddingService,
	registry driven.IndexRegistry,
	docStore driven.DocumentStore,
) *RetrievalService {
	return &RetrievalService{
		chunker:     proc,
		embedding:   embedding,
		registry:    registry,
		docStore:    docStore,
		ingestLocks: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutation lock for a document, creating it on first
// use. Ingest and delete for the same document serialize on this lock.
func (s *RetrievalService) lockFor(documentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.ingestLocks[documentID]
	if !ok {
		l = &sync.Mutex{}
		s.ingestLocks[documentID] = l
	}
	return l
}

// Ingest chunks, embeds and indexes a document's extracted text.
//
// All chunks are embedded in one batch before anything touches the index,
// so an embedding failure or cancellation leaves no partial index state.
// On success the affected index is persisted and the catalog entry, when a
// document store is wired, moves to ready with the chunk count recorded.
func (s *RetrievalService) Ingest(ctx context.Context, documentID, text string) (int, error) {
	if strings.TrimSpace(documentID) == "" {
		return 0, fmt.Errorf("%w: document ID is empty", domain.ErrInvalidInput)
	}

	lock := s.lockFor(documentID)
	lock.Lock()
	defer lock.Unlock()

	logger.Section("Ingestion")
	logger.Debug("Document: %s (%d bytes of text)", documentID, len(text))

	s.setStatus(ctx, documentID, domain.StatusProcessing, "")

	chunks := s.chunker.Chunk(documentID, text)
	if len(chunks) == 0 {
		logger.Info("Document %s produced no chunks", documentID)
		s.finishIngest(ctx, documentID, nil)
		return 0, nil
	}
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf("embedding %d chunks: %w", len(chunks), err))
	}
	if len(vectors) != len(chunks) {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf(
			"%w: embedding service returned %d vectors for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(chunks)))
	}
	if err := ctx.Err(); err != nil {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf("%w: %v", domain.ErrIngestionAborted, err))
	}

	index, err := s.registry.GetOrCreate(ctx, documentID, s.embedding.Dimensions())
	if err != nil {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf("opening index: %w", err))
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = domain.RecordForChunk(c, 0) // vector IDs are assigned by Add
	}

	ids, err := index.Add(vectors, records)
	if err != nil {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf("indexing chunks: %w", err))
	}
	logger.Debug("Indexed vectors %d..%d", ids[0], ids[len(ids)-1])

	if err := index.Persist(); err != nil {
		return 0, s.failIngest(ctx, documentID, fmt.Errorf("persisting index: %w", err))
	}

	s.finishIngest(ctx, documentID, chunks)
	logger.Info("Document %s ready: %d chunks indexed", documentID, len(chunks))
	return len(chunks), nil
}

// failIngest marks the catalog entry failed and returns the cause wrapped
// with ingestion context.
func (s *RetrievalService) failIngest(ctx context.Context, documentID string, cause error) error {
	s.setStatus(ctx, documentID, domain.StatusFailed, cause.Error())
	return fmt.Errorf("ingesting document %q: %w", documentID, cause)
}

// finishIngest stores the chunk texts and flips the catalog entry to ready.
func (s *RetrievalService) finishIngest(ctx context.Context, documentID string, chunks []domain.Chunk) {
	if s.docStore == nil {
		return
	}

	if len(chunks) > 0 {
		if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			logger.Warn("failed to store chunk texts for %s: %v", documentID, err)
		}
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("failed to read catalog entry for %s: %v", documentID, err)
		}
		return
	}
	doc.Status = domain.StatusReady
	doc.ChunkCount = len(chunks)
	doc.FailureReason = ""
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("failed to update catalog entry for %s: %v", documentID, err)
	}
}

// setStatus records a catalog status transition, tolerating the absence of
// a document store or of the catalog entry itself.
func (s *RetrievalService) setStatus(ctx context.Context, documentID string, status domain.DocumentStatus, reason string) {
	if s.docStore == nil {
		return
	}
	if err := s.docStore.SetStatus(ctx, documentID, status, reason); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("failed to set status %s for %s: %v", status, documentID, err)
	}
}

// Query searches a single document's index.
func (s *RetrievalService) Query(ctx context.Context, documentID, text string, k int) ([]domain.RetrievedHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.RetrievedHit{}, nil
	}
	if k <= 0 {
		k = DefaultQueryK
	}

	query, err := s.embedding.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	return s.searchOne(ctx, documentID, query, k)
}

// searchOne runs a query vector against one document's index. A document
// with no index yields empty results: it simply has not been ingested yet.
func (s *RetrievalService) searchOne(ctx context.Context, documentID string, query []float32, k int) ([]domain.RetrievedHit, error) {
	index, err := s.registry.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("No index for document %s, returning no results", documentID)
			return []domain.RetrievedHit{}, nil
		}
		return nil, fmt.Errorf("opening index for %q: %w", documentID, err)
	}

	hits, err := index.Search(query, k)
	if err != nil {
		return nil, fmt.Errorf("searching document %q: %w", documentID, err)
	}
	return hits, nil
}

// QueryMany embeds the query once, searches each listed document's index
// independently, and merges the ranked results.
//
// A document that fails to load is logged and skipped; one corrupt index
// must not take down a query spanning a whole course.
func (s *RetrievalService) QueryMany(ctx context.Context, documentIDs []string, text string, opts domain.QueryOptions) ([]domain.RetrievedHit, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(documentIDs) == 0 {
		return []domain.RetrievedHit{}, nil
	}

	totalK := opts.TotalK
	if totalK <= 0 {
		totalK = DefaultQueryK
	}
	perDocK := opts.PerDocumentK
	if perDocK <= 0 {
		// Every hit could come from one document, so each index must be
		// able to supply the full result list.
		perDocK = totalK
	}

	logger.Section("Cross-Document Query")
	logger.Debug("Documents: %d, per-document k: %d, total k: %d", len(documentIDs), perDocK, totalK)

	query, err := s.embedding.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		merged  []domain.RetrievedHit
		skipped int
	)
	for _, id := range documentIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			hits, err := s.searchOne(ctx, id, query, perDocK)
			if err != nil {
				logger.Warn("skipping document %s in query: %v", id, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			mu.Lock()
			merged = append(merged, hits...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Less(merged[j]) })
	if len(merged) > totalK {
		merged = merged[:totalK]
	}

	logger.Debug("Merged %d hits (%d documents skipped)", len(merged), skipped)
	if merged == nil {
		merged = []domain.RetrievedHit{}
	}
	return merged, nil
}

// DeleteDocument removes the document's index, durable artifacts and
// catalog entry. Index artifacts go first so a failure can never leave
// vectors serving queries for a document the catalog no longer knows.
func (s *RetrievalService) DeleteDocument(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("%w: document ID is empty", domain.ErrInvalidInput)
	}

	lock := s.lockFor(documentID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.registry.Delete(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("deleting index for %q: %w", documentID, err)
	}

	if s.docStore != nil {
		if err := s.docStore.DeleteDocument(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("deleting catalog entry for %q: %w", documentID, err)
		}
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}
