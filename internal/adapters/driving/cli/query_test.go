package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// fakeRetrieval implements driving.RetrievalService for CLI tests.
type fakeRetrieval struct {
	hits      []domain.RetrievedHit
	err       error
	queried   []string
	deletedID string
}

func (f *fakeRetrieval) Ingest(_ context.Context, _, _ string) (int, error) {
	return 0, nil
}

func (f *fakeRetrieval) Query(_ context.Context, documentID, _ string, _ int) ([]domain.RetrievedHit, error) {
	f.queried = []string{documentID}
	return f.hits, f.err
}

func (f *fakeRetrieval) QueryMany(_ context.Context, documentIDs []string, _ string, _ domain.QueryOptions) ([]domain.RetrievedHit, error) {
	f.queried = documentIDs
	return f.hits, f.err
}

func (f *fakeRetrieval) DeleteDocument(_ context.Context, documentID string) error {
	f.deletedID = documentID
	return f.err
}

// fakeLibrary implements driving.LibraryService for CLI tests.
type fakeLibrary struct {
	docs    []domain.Document
	doc     *domain.Document
	content string
	err     error
}

func (f *fakeLibrary) Register(_ context.Context, courseID, filename string) (*domain.Document, error) {
	return &domain.Document{ID: "new-doc", CourseID: courseID, Filename: filename}, f.err
}

func (f *fakeLibrary) Get(_ context.Context, _ string) (*domain.Document, error) {
	if f.doc == nil {
		return nil, domain.ErrNotFound
	}
	return f.doc, f.err
}

func (f *fakeLibrary) ListByCourse(_ context.Context, _ string) ([]domain.Document, error) {
	return f.docs, f.err
}

func (f *fakeLibrary) GetContent(_ context.Context, _ string) (string, error) {
	return f.content, f.err
}

// withServices swaps the package-level services for the duration of a test.
func withServices(t *testing.T, retrieval *fakeRetrieval, library *fakeLibrary) {
	t.Helper()

	oldRetrieval, oldLibrary := retrievalService, libraryService
	retrievalService, libraryService = retrieval, library
	t.Cleanup(func() {
		retrievalService, libraryService = oldRetrieval, oldLibrary
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		queryDocuments = nil
		queryCourse = ""
		queryLimit = 5
		queryJSON = false
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestQuerySingleDocument(t *testing.T) {
	retrieval := &fakeRetrieval{hits: []domain.RetrievedHit{
		{
			DocumentID: "doc-1",
			VectorID:   0,
			Similarity: 0.91,
			Record:     domain.VectorRecord{ChunkIndex: 2, Text: "Entropy always increases."},
		},
	}}
	withServices(t, retrieval, &fakeLibrary{})

	out, err := execute(t, "query", "entropy", "--document", "doc-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"doc-1"}, retrieval.queried)
	assert.Contains(t, out, "doc-1 #2 (0.910)")
	assert.Contains(t, out, "Entropy always increases.")
}

func TestQueryCourseFansOutToQueryableDocuments(t *testing.T) {
	retrieval := &fakeRetrieval{}
	library := &fakeLibrary{docs: []domain.Document{
		{ID: "doc-ready", Status: domain.StatusReady},
		{ID: "doc-pending", Status: domain.StatusPending},
		{ID: "doc-failed", Status: domain.StatusFailed},
		{ID: "doc-ready-2", Status: domain.StatusReady},
	}}
	withServices(t, retrieval, library)

	out, err := execute(t, "query", "entropy", "--course", "thermo-101")
	require.NoError(t, err)

	assert.Equal(t, []string{"doc-ready", "doc-ready-2"}, retrieval.queried)
	assert.Contains(t, out, "No results found.")
}

func TestQueryRequiresScope(t *testing.T) {
	withServices(t, &fakeRetrieval{}, &fakeLibrary{})

	_, err := execute(t, "query", "entropy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scope")
}

func TestQueryRejectsBothScopes(t *testing.T) {
	withServices(t, &fakeRetrieval{}, &fakeLibrary{})

	_, err := execute(t, "query", "entropy", "--document", "doc-1", "--course", "thermo-101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestQueryJSONOutput(t *testing.T) {
	retrieval := &fakeRetrieval{hits: []domain.RetrievedHit{
		{DocumentID: "doc-1", VectorID: 3, Similarity: 0.5},
	}}
	withServices(t, retrieval, &fakeLibrary{})

	out, err := execute(t, "query", "entropy", "--document", "doc-1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"document_id": "doc-1"`)
	assert.Contains(t, out, `"vector_id": 3`)
}

func TestSnippetTruncates(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 10))
	assert.Equal(t, "abcde...", snippet("abcdefghij", 5))
}
