package flat

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

func buildIndex(t *testing.T, dir string) *Index {
	t.Helper()

	ix, err := New("doc-1", 3, dir)
	require.NoError(t, err)

	_, err = ix.Add(
		[][]float32{{1, 2, 2}, {0, 3, 4}, {5, 0, 0}},
		[]domain.VectorRecord{
			{ChunkIndex: 0, Text: "alpha", TokenEstimate: 1, SentenceCount: 1},
			{ChunkIndex: 1, Text: "beta", TokenEstimate: 1, SentenceCount: 1},
			{ChunkIndex: 2, Text: "gamma", TokenEstimate: 1, SentenceCount: 1},
		},
	)
	require.NoError(t, err)
	return ix
}

func TestPersistLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	loaded, err := Load("doc-1", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())
	assert.Equal(t, 3, loaded.Dimensions())

	// Identical query must produce identical results before and after.
	query := []float32{0, 3, 4}
	before, err := ix.Search(query, 3)
	require.NoError(t, err)
	after, err := loaded.Search(query, 3)
	require.NoError(t, err)

	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].VectorID, after[i].VectorID)
		assert.InDelta(t, float64(before[i].Similarity), float64(after[i].Similarity), 1e-6)
		assert.Equal(t, before[i].Record, after[i].Record)
	}
}

func TestLoadMissingIsNotFound(t *testing.T) {
	_, err := Load("doc-missing", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadMissingMetadataIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())
	require.NoError(t, os.Remove(MetaFilePath(dir, "doc-1")))

	_, err := Load("doc-1", dir)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoadTruncatedVectorFile(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	data, err := os.ReadFile(VectorFilePath(dir, "doc-1"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(VectorFilePath(dir, "doc-1"), data[:len(data)-5], 0600))

	_, err = Load("doc-1", dir)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoadBadMagic(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	data, err := os.ReadFile(VectorFilePath(dir, "doc-1"))
	require.NoError(t, err)
	copy(data[:4], "NOPE")
	require.NoError(t, os.WriteFile(VectorFilePath(dir, "doc-1"), data, 0600))

	_, err = Load("doc-1", dir)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestLoadMetadataCountMismatch(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	// Persist a second index and swap its metadata in.
	other, err := New("doc-2", 3, dir)
	require.NoError(t, err)
	_, err = other.Add([][]float32{{1, 0, 0}}, []domain.VectorRecord{{ChunkIndex: 0, Text: "x"}})
	require.NoError(t, err)
	require.NoError(t, other.Persist())

	meta, err := os.ReadFile(MetaFilePath(dir, "doc-2"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(MetaFilePath(dir, "doc-1"), meta, 0600))

	_, err = Load("doc-1", dir)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestPersistIsAtomicOnDisk(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	// A second persist must leave no temp files behind.
	require.NoError(t, ix.Persist())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-")
	}
}

func TestRemoveArtifactsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ix := buildIndex(t, dir)
	require.NoError(t, ix.Persist())

	require.NoError(t, removeArtifacts(dir, "doc-1"))
	require.NoError(t, removeArtifacts(dir, "doc-1"))

	_, err := Load("doc-1", dir)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
