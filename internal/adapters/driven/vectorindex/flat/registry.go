package flat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.IndexRegistry = (*Registry)(nil)

// Registry maps document IDs to their live vector indices and owns their
// lifecycle: lazy loading from disk, creation on first write, and
// whole-document deletion.
//
// Creation is single-flighted per document ID, so concurrent GetOrCreate
// calls for the same document always converge on one Index instance.
// Entries are never evicted for memory pressure; they leave the map only
// through Delete.
type Registry struct {
	dir string

	mu       sync.Mutex
	indices  map[string]*Index
	inflight map[string]chan struct{}
}

// NewRegistry creates a registry that persists indices under dir.
func NewRegistry(dir string) (*Registry, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: registry directory is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	return &Registry{
		dir:      dir,
		indices:  make(map[string]*Index),
		inflight: make(map[string]chan struct{}),
	}, nil
}

// GetOrCreate returns the live index for the document, loading it from disk
// or constructing a new empty index bound to dimensions as needed.
func (r *Registry) GetOrCreate(ctx context.Context, documentID string, dimensions int) (driven.VectorIndex, error) {
	ix, err := r.resolve(ctx, documentID, func() (*Index, error) {
		ix, err := Load(documentID, r.dir)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("registry: creating new index for document %s (dim=%d)", documentID, dimensions)
			return New(documentID, dimensions, r.dir)
		}
		return ix, err
	})
	if err != nil {
		return nil, err
	}

	if ix.Dimensions() != dimensions {
		return nil, fmt.Errorf("%w: index for %q has dimension %d, requested %d",
			domain.ErrDimensionMismatch, documentID, ix.Dimensions(), dimensions)
	}
	return ix, nil
}

// Get returns the index for a document without ever constructing a new one.
// Absent from both memory and disk yields domain.ErrNotFound.
func (r *Registry) Get(ctx context.Context, documentID string) (driven.VectorIndex, error) {
	ix, err := r.resolve(ctx, documentID, func() (*Index, error) {
		return Load(documentID, r.dir)
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}

// resolve returns the cached index for documentID or runs build to produce
// it, single-flighting concurrent builds for the same key.
func (r *Registry) resolve(ctx context.Context, documentID string, build func() (*Index, error)) (*Index, error) {
	if err := validateDocumentID(documentID); err != nil {
		return nil, err
	}

	for {
		r.mu.Lock()
		if ix, ok := r.indices[documentID]; ok {
			r.mu.Unlock()
			return ix, nil
		}

		if wait, ok := r.inflight[documentID]; ok {
			r.mu.Unlock()
			select {
			case <-wait:
				continue // builder finished; re-check the map
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		done := make(chan struct{})
		r.inflight[documentID] = done
		r.mu.Unlock()

		ix, err := build()

		r.mu.Lock()
		delete(r.inflight, documentID)
		if err == nil {
			r.indices[documentID] = ix
		}
		close(done)
		r.mu.Unlock()

		return ix, err
	}
}

// Delete removes the document's durable artifacts and drops the in-memory
// entry. Files go first: if the process dies mid-delete, the worst case is
// a missing index (empty query results), never ghost vectors.
func (r *Registry) Delete(_ context.Context, documentID string) error {
	if err := validateDocumentID(documentID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := removeArtifacts(r.dir, documentID); err != nil {
		return fmt.Errorf("deleting index artifacts for %q: %w", documentID, err)
	}
	delete(r.indices, documentID)
	return nil
}

// LoadAll scans the registry directory and loads every persisted index.
// A corrupt document is logged and skipped; it must not take down the rest.
func (r *Registry) LoadAll(ctx context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("scanning registry directory: %w", err)
	}

	loaded, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), vectorFileExt) {
			continue
		}
		documentID := strings.TrimSuffix(entry.Name(), vectorFileExt)

		if _, err := r.Get(ctx, documentID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("registry: skipping document %s: %v", documentID, err)
			failed++
			continue
		}
		loaded++
	}

	logger.Info("registry: loaded %d document indices (%d failed)", loaded, failed)
	return nil
}

// DocumentIDs returns the IDs of all documents with a live index, sorted.
func (r *Registry) DocumentIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.indices))
	for id := range r.indices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close drops all in-memory entries. Durable artifacts are untouched.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indices = make(map[string]*Index)
	return nil
}
