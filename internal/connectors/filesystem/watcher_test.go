package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// recordingLibrary implements driving.LibraryService for testing.
type recordingLibrary struct {
	mu    sync.Mutex
	next  int
	saved []domain.Document
}

func (r *recordingLibrary) Register(_ context.Context, courseID, filename string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	doc := domain.Document{
		ID:       filename, // deterministic for assertions
		CourseID: courseID,
		Filename: filename,
		Status:   domain.StatusPending,
	}
	r.saved = append(r.saved, doc)
	return &doc, nil
}

func (r *recordingLibrary) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (r *recordingLibrary) ListByCourse(_ context.Context, _ string) ([]domain.Document, error) {
	return nil, nil
}

func (r *recordingLibrary) GetContent(_ context.Context, _ string) (string, error) {
	return "", domain.ErrNotFound
}

// recordingRetrieval implements driving.RetrievalService for testing.
type recordingRetrieval struct {
	mu       sync.Mutex
	ingested map[string]string
}

func newRecordingRetrieval() *recordingRetrieval {
	return &recordingRetrieval{ingested: make(map[string]string)}
}

func (r *recordingRetrieval) Ingest(_ context.Context, documentID, text string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested[documentID] = text
	return 1, nil
}

func (r *recordingRetrieval) Query(_ context.Context, _, _ string, _ int) ([]domain.RetrievedHit, error) {
	return nil, nil
}

func (r *recordingRetrieval) QueryMany(_ context.Context, _ []string, _ string, _ domain.QueryOptions) ([]domain.RetrievedHit, error) {
	return nil, nil
}

func (r *recordingRetrieval) DeleteDocument(_ context.Context, _ string) error {
	return nil
}

func (r *recordingRetrieval) get(documentID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, ok := r.ingested[documentID]
	return text, ok
}

func TestNewWatcherValidation(t *testing.T) {
	lib := &recordingLibrary{}
	ret := newRecordingRetrieval()

	_, err := NewWatcher("", "thermo-101", lib, ret)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewWatcher(t.TempDir(), "", lib, ret)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEligiblePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"lecture.md", true},
		{"paper.TXT", true},
		{"slides.pdf", false},
		{".hidden.txt", false},
		{"archive.tar.gz", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eligiblePath(tt.path), tt.path)
	}
}

func TestEligibleSkipsChmodAndDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, "thermo-101", &recordingLibrary{}, newRecordingRetrieval())
	require.NoError(t, err)

	sub := filepath.Join(dir, "subdir.txt") // directory with a text-ish name
	require.NoError(t, os.Mkdir(sub, 0755))
	assert.False(t, w.eligible(fsnotify.Event{Name: sub, Op: fsnotify.Create}))

	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("text"), 0644))
	assert.False(t, w.eligible(fsnotify.Event{Name: file, Op: fsnotify.Chmod}))
	assert.True(t, w.eligible(fsnotify.Event{Name: file, Op: fsnotify.Write}))
}

func TestRunIngestsExistingAndDroppedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("Already here."), 0644))

	lib := &recordingLibrary{}
	ret := newRecordingRetrieval()

	w, err := NewWatcher(dir, "thermo-101", lib, ret, WithSettle(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The pre-existing file is picked up on startup.
	waitFor(t, func() bool {
		_, ok := ret.get("existing.txt")
		return ok
	})

	// A file dropped while running is picked up after it settles, with
	// markdown formatting stripped before ingestion.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dropped.md"), []byte("# Week 3\n\n**New** lecture notes."), 0644))
	waitFor(t, func() bool {
		_, ok := ret.get("dropped.md")
		return ok
	})

	text, _ := ret.get("dropped.md")
	assert.Equal(t, "Week 3\n\nNew lecture notes.", text)

	// Hidden files are never ingested.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ignored.txt"), []byte("nope"), 0644))
	time.Sleep(200 * time.Millisecond)
	_, ok := ret.get(".ignored.txt")
	assert.False(t, ok)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
