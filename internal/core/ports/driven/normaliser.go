package driven

// Normaliser converts a raw file into plain text ready for chunking.
// Implementations are format-specific (markdown, plain text).
type Normaliser interface {
	// Supports reports whether this normaliser handles the given filename,
	// judged by its extension.
	Supports(filename string) bool

	// Normalise converts raw file bytes into clean plain text. The result
	// has no markup, a single line-ending convention, and valid UTF-8.
	Normalise(filename string, data []byte) (string, error)
}
