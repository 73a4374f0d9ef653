// Package chunker provides a sentence-aware text chunking processor.
//
// Text is split into sentences, then sentences are accumulated into chunks
// up to a target token budget, with a configurable token budget of trailing
// sentences carried over as overlap between consecutive chunks. Token counts
// are a whitespace word-count proxy, not a real tokenizer; the approximation
// is deliberate and changing it would change retrieval behaviour.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// DefaultTargetTokens is the default token budget per chunk.
const DefaultTargetTokens = 500

// DefaultOverlapTokens is the default token budget carried over between
// consecutive chunks.
const DefaultOverlapTokens = 100

// Processor splits document text into overlapping sentence-bounded chunks.
// It is a pure function of its inputs and safe for concurrent use.
type Processor struct {
	targetTokens  int
	overlapTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetTokens sets the per-chunk token budget.
func WithTargetTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.targetTokens = n
		}
	}
}

// WithOverlapTokens sets the overlap token budget between chunks.
func WithOverlapTokens(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlapTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap budget at or above the target budget can never make progress
// and is rejected as a configuration error.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		targetTokens:  DefaultTargetTokens,
		overlapTokens: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlapTokens >= p.targetTokens {
		return nil, fmt.Errorf("%w: overlap tokens (%d) must be less than target tokens (%d)",
			domain.ErrInvalidInput, p.overlapTokens, p.targetTokens)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Chunk splits text into ordered chunks for the given document.
// Empty or whitespace-only input produces zero chunks. A single sentence
// exceeding the target budget is emitted whole rather than split mid-sentence.
func (p *Processor) Chunk(documentID, text string) []domain.Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	tokens := make([]int, len(sentences))
	for i, s := range sentences {
		tokens[i] = len(strings.Fields(s))
	}

	var chunks []domain.Chunk

	var buf []string
	var bufTokens []int
	total := 0

	seal := func() {
		chunks = append(chunks, domain.Chunk{
			DocumentID:    documentID,
			ChunkIndex:    len(chunks),
			Text:          strings.Join(buf, " "),
			TokenEstimate: total,
			SentenceCount: len(buf),
		})
	}

	for i, sentence := range sentences {
		if total+tokens[i] > p.targetTokens && len(buf) > 0 {
			seal()

			// Start the next chunk with the sealed chunk's trailing
			// sentences worth of overlap, then the triggering sentence.
			overlap, overlapTokens := p.trailingOverlap(buf, bufTokens)
			buf = append(overlap, sentence)
			bufTokens = append(overlapTokens, tokens[i])
			total = tokens[i]
			for _, t := range overlapTokens {
				total += t
			}
			continue
		}

		buf = append(buf, sentence)
		bufTokens = append(bufTokens, tokens[i])
		total += tokens[i]
	}

	if len(buf) > 0 {
		seal()
	}

	return chunks
}

// trailingOverlap returns copies of the trailing sentences of the sealed
// buffer whose combined token count fits within the overlap budget.
// Overlap is sentence-granular: a sentence is taken whole or not at all.
func (p *Processor) trailingOverlap(buf []string, bufTokens []int) ([]string, []int) {
	if p.overlapTokens <= 0 {
		return nil, nil
	}

	start := len(buf)
	sum := 0
	for start > 0 && sum+bufTokens[start-1] <= p.overlapTokens {
		start--
		sum += bufTokens[start]
	}

	if start == len(buf) {
		return nil, nil
	}

	sentences := make([]string, len(buf)-start)
	copy(sentences, buf[start:])
	tokens := make([]int, len(bufTokens)-start)
	copy(tokens, bufTokens[start:])
	return sentences, tokens
}

// SplitSentences splits text on terminal punctuation followed by whitespace
// and an upper-case or numeric continuation. The heuristic is language-light
// and tolerates common abbreviations by refusing to split after single-letter
// tokens (initials like "J. Smith"). Boundary errors never drop text: every
// input rune lands in exactly one sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		if r == '.' && looksLikeAbbreviation(current.String()) {
			continue
		}

		if !boundaryFollows(runes, i+1) {
			continue
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// boundaryFollows reports whether the runes after a terminal punctuation
// mark look like the start of a new sentence: at least one whitespace rune,
// then an upper-case letter, a digit, or an opening quote.
func boundaryFollows(runes []rune, next int) bool {
	if next >= len(runes) {
		return true // end of input closes the sentence
	}
	if !unicode.IsSpace(runes[next]) {
		return false
	}
	for i := next; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			continue
		}
		r := runes[i]
		return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\'' || r == '(' || r == '“'
	}
	return true
}

// looksLikeAbbreviation reports whether the text ends in a period that most
// likely belongs to an initial or multi-part abbreviation ("J.", "e.g.").
func looksLikeAbbreviation(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return false
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]

	// Single-letter tokens are initials; tokens with interior periods are
	// multi-part abbreviations like "e.g" or "U.S".
	word := strings.TrimLeft(last, "(\"'“")
	if len([]rune(word)) <= 1 {
		return true
	}
	return strings.Contains(word, ".")
}
