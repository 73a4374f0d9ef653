// Package markdown normalises markdown files by stripping formatting
// down to plain prose. Code blocks are dropped entirely: they rarely
// embed well and would pollute sentence-level chunking.
package markdown

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/normalisers/plaintext"
)

var _ driven.Normaliser = (*Normaliser)(nil)

var (
	reCodeBlock    = regexp.MustCompile("(?s)```.*?```")
	reInlineCode   = regexp.MustCompile("`[^`]+`")
	reImage        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBlockquote   = regexp.MustCompile(`(?m)^>\s*`)
	reRule         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	reBulletList   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reNumberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reBlankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles markdown documents.
type Normaliser struct{}

// New creates a markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether the filename has a markdown extension.
func (n *Normaliser) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Normalise strips markdown formatting and returns plain prose.
func (n *Normaliser) Normalise(_ string, data []byte) (string, error) {
	return Strip(plaintext.Clean(string(data))), nil
}

// Strip removes common markdown syntax, leaving plain text. Link text is
// kept, link targets and images are not.
func Strip(content string) string {
	content = reCodeBlock.ReplaceAllString(content, "")
	content = reInlineCode.ReplaceAllString(content, "")
	content = reImage.ReplaceAllString(content, "")
	content = reLink.ReplaceAllString(content, "$1")
	content = reHeading.ReplaceAllString(content, "")
	content = reBlockquote.ReplaceAllString(content, "")
	content = reRule.ReplaceAllString(content, "")
	content = reBulletList.ReplaceAllString(content, "")
	content = reNumberedList.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = reBlankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
