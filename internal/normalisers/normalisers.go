// Package normalisers selects a format-specific normaliser for a file
// and converts its raw bytes into plain text for chunking.
package normalisers

import (
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/normalisers/markdown"
	"github.com/lectio-labs/lectio-cli/internal/normalisers/plaintext"
)

// registered is checked in order; the first match wins. Plain text is
// last and doubles as the fallback for unknown extensions.
var registered = []driven.Normaliser{
	markdown.New(),
	plaintext.New(),
}

var fallback = plaintext.New()

// ForFilename returns the normaliser handling the given filename.
func ForFilename(filename string) driven.Normaliser {
	for _, n := range registered {
		if n.Supports(filename) {
			return n
		}
	}
	return fallback
}

// Normalise converts raw file bytes into plain text using the
// normaliser matching the filename.
func Normalise(filename string, data []byte) (string, error) {
	return ForFilename(filename).Normalise(filename, data)
}
