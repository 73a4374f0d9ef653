package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/config/file"
)

func withConfigStore(t *testing.T) *file.ConfigStore {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	old := configStore
	configStore = store
	t.Cleanup(func() { configStore = old })
	return store
}

func TestConfigSetDetectsTypes(t *testing.T) {
	store := withConfigStore(t)

	_, err := execute(t, "config", "set", file.KeyChunkTarget, "400")
	require.NoError(t, err)
	_, err = execute(t, "config", "set", "verbose", "true")
	require.NoError(t, err)
	_, err = execute(t, "config", "set", file.KeyEmbeddingProvider, "openai")
	require.NoError(t, err)

	assert.Equal(t, 400, store.GetInt(file.KeyChunkTarget, 0))
	assert.True(t, store.GetBool("verbose", false))
	assert.Equal(t, "openai", store.GetString(file.KeyEmbeddingProvider, ""))
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	store := withConfigStore(t)
	require.NoError(t, store.Set(file.KeyOpenAIAPIKey, "sk-abcdefghijklmnop"))

	out, err := execute(t, "config", "show")
	require.NoError(t, err)

	assert.NotContains(t, out, "sk-abcdefghijklmnop")
	assert.Contains(t, out, "sk-a...mnop")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-1...wxyz", maskAPIKey("sk-1234567890wxyz"))
}
