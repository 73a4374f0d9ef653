package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupports(t *testing.T) {
	n := New()

	assert.True(t, n.Supports("notes.txt"))
	assert.True(t, n.Supports("paper.TeX"))
	assert.True(t, n.Supports("readme.rst"))
	assert.False(t, n.Supports("notes.md"))
}

func TestNormaliseStripsBOM(t *testing.T) {
	out, err := New().Normalise("notes.txt", []byte("\ufeffHello world."))
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", out)
}

func TestNormaliseUnifiesLineEndings(t *testing.T) {
	out, err := New().Normalise("notes.txt", []byte("one\r\ntwo\rthree\n"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree", out)
}

func TestCleanReplacesInvalidUTF8(t *testing.T) {
	out := Clean("valid \xff\xfe text")
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "text")
	assert.True(t, len(out) > 0)
	assert.NotContains(t, out, "\xff")
}
