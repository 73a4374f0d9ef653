package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(KeyEmbeddingProvider, "ollama"))
	require.NoError(t, s.Set(KeyChunkTarget, 400))
	require.NoError(t, s.Set("verbose", true))

	assert.Equal(t, "ollama", s.GetString(KeyEmbeddingProvider, "openai"))
	assert.Equal(t, 400, s.GetInt(KeyChunkTarget, 500))
	assert.True(t, s.GetBool("verbose", false))
}

func TestFallbacks(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, "openai", s.GetString(KeyEmbeddingProvider, "openai"))
	assert.Equal(t, 500, s.GetInt(KeyChunkTarget, 500))
	assert.Equal(t, 8.0, s.GetFloat("embedding.requests_per_second", 8.0))
	assert.False(t, s.GetBool("verbose", false))

	// Wrong type falls back too.
	require.NoError(t, s.Set(KeyChunkTarget, "not a number"))
	assert.Equal(t, 500, s.GetInt(KeyChunkTarget, 500))
}

func TestPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	s, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyDefaultCourse, "thermo-101"))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "thermo-101", reloaded.GetString(KeyDefaultCourse, ""))
}

func TestLoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[embedding]\nprovider = \"openai\"\nmodel = \"text-embedding-3-small\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", s.GetString(KeyEmbeddingProvider, ""))
	assert.Equal(t, "text-embedding-3-small", s.GetString(KeyEmbeddingModel, ""))
}

func TestConfigFilePermissions(t *testing.T) {
	dir := t.TempDir()

	s, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyOpenAIAPIKey, "sk-secret"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestMissingFileStartsEmpty(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Get("anything")
	assert.False(t, ok)
}
