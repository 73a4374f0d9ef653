package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupports(t *testing.T) {
	n := New()

	assert.True(t, n.Supports("notes.md"))
	assert.True(t, n.Supports("Notes.MD"))
	assert.True(t, n.Supports("notes.markdown"))
	assert.False(t, n.Supports("notes.txt"))
	assert.False(t, n.Supports("notes"))
}

func TestNormaliseStripsFormatting(t *testing.T) {
	input := "# Thermodynamics\n\n" +
		"The **first law** states that *energy* is conserved.\n\n" +
		"- heat\n- work\n\n" +
		"See [the notes](https://example.com/notes) for details.\n\n" +
		"```go\nfunc main() {}\n```\n\n" +
		"> Entropy always increases.\n"

	out, err := New().Normalise("notes.md", []byte(input))
	require.NoError(t, err)

	assert.Contains(t, out, "Thermodynamics")
	assert.Contains(t, out, "The first law states that energy is conserved.")
	assert.Contains(t, out, "See the notes for details.")
	assert.Contains(t, out, "Entropy always increases.")
	assert.NotContains(t, out, "func main")
	assert.NotContains(t, out, "https://example.com")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "- heat")
}

func TestStripNumberedListsAndRules(t *testing.T) {
	input := "1. First step\n2. Second step\n\n---\n\nClosing remark."

	out := Strip(input)

	assert.Contains(t, out, "First step")
	assert.Contains(t, out, "Second step")
	assert.Contains(t, out, "Closing remark.")
	assert.NotContains(t, out, "1.")
	assert.NotContains(t, out, "---")
}

func TestStripCollapsesBlankRuns(t *testing.T) {
	out := Strip("First.\n\n\n\n\nSecond.")
	assert.Equal(t, "First.\n\nSecond.", out)
}

func TestStripInlineCode(t *testing.T) {
	out := Strip("Run `go test` before pushing.")
	assert.Equal(t, "Run  before pushing.", out)
}
