package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/storage/memory"
	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

func TestRegisterCreatesPendingDocument(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewLibraryService(store)

	doc, err := svc.Register(context.Background(), "thermo-101", "lecture-3.pdf")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "thermo-101", doc.CourseID)
	assert.Equal(t, "lecture-3.pdf", doc.Filename)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.False(t, doc.Queryable())

	saved, err := svc.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, saved.ID)
}

func TestRegisterMintsDistinctIDs(t *testing.T) {
	svc := NewLibraryService(memory.NewDocumentStore())

	a, err := svc.Register(context.Background(), "thermo-101", "a.pdf")
	require.NoError(t, err)
	b, err := svc.Register(context.Background(), "thermo-101", "a.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewLibraryService(memory.NewDocumentStore())

	_, err := svc.Register(context.Background(), "", "a.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(context.Background(), "thermo-101", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUnknownDocument(t *testing.T) {
	svc := NewLibraryService(memory.NewDocumentStore())

	_, err := svc.Get(context.Background(), "doc-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByCourseScopesResults(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewLibraryService(store)

	_, err := svc.Register(context.Background(), "thermo-101", "a.pdf")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "thermo-101", "b.pdf")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "bio-200", "c.pdf")
	require.NoError(t, err)

	docs, err := svc.ListByCourse(context.Background(), "thermo-101")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestGetContentDeduplicatesOverlap(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", Status: domain.StatusReady}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{DocumentID: "doc-1", ChunkIndex: 0, Text: "First point. Second point. Third point."},
		{DocumentID: "doc-1", ChunkIndex: 1, Text: "Third point. Fourth point. Fifth point."},
	}))

	svc := NewLibraryService(store)

	content, err := svc.GetContent(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "First point. Second point. Third point. Fourth point. Fifth point.", content)
}

func TestGetContentNoChunks(t *testing.T) {
	store := memory.NewDocumentStore()
	require.NoError(t, store.SaveDocument(context.Background(), &domain.Document{ID: "doc-1", Status: domain.StatusPending}))

	svc := NewLibraryService(store)

	content, err := svc.GetContent(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestGetContentUnknownDocument(t *testing.T) {
	svc := NewLibraryService(memory.NewDocumentStore())

	_, err := svc.GetContent(context.Background(), "doc-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOverlapLen(t *testing.T) {
	assert.Equal(t, 0, overlapLen(nil, []string{"a"}))
	assert.Equal(t, 1, overlapLen([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, 2, overlapLen([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, 0, overlapLen([]string{"a"}, []string{"b"}))
}
