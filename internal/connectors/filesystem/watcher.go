// Package filesystem provides the drop-folder connector: text files
// dropped into a watched directory are registered in the catalog and
// ingested into the retrieval engine automatically.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driving"
	"github.com/lectio-labs/lectio-cli/internal/logger"
	"github.com/lectio-labs/lectio-cli/internal/normalisers"
)

// DefaultSettle is how long a file must stay quiet after its last write
// event before it is ingested. Editors and downloads write in bursts; the
// settle window avoids ingesting half-written files.
const DefaultSettle = 2 * time.Second

// textExtensions lists the file types the watcher ingests. Everything else
// is ignored.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".rst": true,
	".tex": true,
}

// Watcher ingests files dropped into a directory into one course.
type Watcher struct {
	dir       string
	courseID  string
	library   driving.LibraryService
	retrieval driving.RetrievalService
	settle    time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the quiet period before a changed file is ingested.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// NewWatcher creates a drop-folder watcher for dir, ingesting into courseID.
func NewWatcher(dir, courseID string, library driving.LibraryService, retrieval driving.RetrievalService, opts ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: watch directory is empty", domain.ErrInvalidInput)
	}
	if courseID == "" {
		return nil, fmt.Errorf("%w: course ID is empty", domain.ErrInvalidInput)
	}

	w := &Watcher{
		dir:       dir,
		courseID:  courseID,
		library:   library,
		retrieval: retrieval,
		settle:    DefaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the directory until the context is cancelled.
// Files already present when Run starts are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %q: %w", w.dir, err)
	}
	logger.Info("watching %s for course %s", w.dir, w.courseID)

	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	// pending maps a path to the time of its last relevant event; a path
	// is processed once it has been quiet for the settle window.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.settle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.eligible(event) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

// ingestExisting processes files already sitting in the drop folder.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scanning %q: %w", w.dir, err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !eligiblePath(path) {
			continue
		}
		w.ingestFile(ctx, path)
	}
	return nil
}

// eligible reports whether a filesystem event should schedule an ingest.
func (w *Watcher) eligible(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if !eligiblePath(event.Name) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return false
	}
	return true
}

// eligiblePath reports whether the path names a visible text file of a
// supported type.
func eligiblePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return textExtensions[strings.ToLower(filepath.Ext(base))]
}

// ingestFile registers the file in the catalog and runs it through the
// retrieval pipeline. Failures are logged, not fatal: one bad file must
// not stop the watcher.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	text, err := normalisers.Normalise(filepath.Base(path), data)
	if err != nil {
		logger.Warn("normalising %s: %v", path, err)
		return
	}

	doc, err := w.library.Register(ctx, w.courseID, filepath.Base(path))
	if err != nil {
		logger.Warn("registering %s: %v", path, err)
		return
	}

	n, err := w.retrieval.Ingest(ctx, doc.ID, text)
	if err != nil {
		logger.Warn("ingesting %s: %v", path, err)
		return
	}
	logger.Info("ingested %s as %s (%d chunks)", filepath.Base(path), doc.ID, n)
}
