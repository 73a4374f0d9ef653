// Package plaintext normalises plain text files: it strips the UTF-8
// byte order mark, replaces invalid byte sequences, and unifies line
// endings so downstream chunking sees consistent input.
package plaintext

import (
	"path/filepath"
	"strings"

	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// extensions lists the file types handled as plain text. The normaliser
// also serves as the fallback for anything no other normaliser claims.
var extensions = map[string]bool{
	".txt": true,
	".rst": true,
	".tex": true,
}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether the filename has a plain text extension.
func (n *Normaliser) Supports(filename string) bool {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

// Normalise sanitises raw bytes into clean UTF-8 text.
func (n *Normaliser) Normalise(_ string, data []byte) (string, error) {
	return Clean(string(data)), nil
}

// Clean strips the BOM, replaces invalid UTF-8 sequences, and converts
// CRLF and bare CR line endings to LF.
func Clean(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToValidUTF8(s, "�")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}
