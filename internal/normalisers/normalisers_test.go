package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectio-labs/lectio-cli/internal/normalisers/markdown"
	"github.com/lectio-labs/lectio-cli/internal/normalisers/plaintext"
)

func TestForFilenameSelection(t *testing.T) {
	assert.IsType(t, &markdown.Normaliser{}, ForFilename("notes.md"))
	assert.IsType(t, &plaintext.Normaliser{}, ForFilename("notes.txt"))
	// Unknown extensions fall back to plain text.
	assert.IsType(t, &plaintext.Normaliser{}, ForFilename("notes.log"))
}

func TestNormaliseDispatchesByExtension(t *testing.T) {
	out, err := Normalise("notes.md", []byte("# Title\n\nBody text."))
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nBody text.", out)

	out, err = Normalise("notes.txt", []byte("# Title\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}
