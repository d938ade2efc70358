package lexicon

import (
	"context"
	"regexp"
	"strings"

	"legalrag/internal/domain"
)

// Terms is the fixed, ordered legal-term lexicon. Slot i of every vector holds the
// relative frequency of Terms[i].
var Terms = []string{
	"liability", "contract", "agreement", "clause", "termination",
	"confidential", "payment", "intellectual", "property", "damages",
	"breach", "notice", "party", "obligation", "right", "law",
	"jurisdiction", "dispute", "remedy", "force", "majeure",
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Embedder maps text to term frequencies over the legal lexicon, zero-padded to
// domain.EmbeddingDimension. It keeps no state between calls.
type Embedder struct {
	index map[string]int
}

// NewEmbedder creates a lexicon embedder.
func NewEmbedder() *Embedder {
	index := make(map[string]int, len(Terms))
	for i, t := range Terms {
		index[t] = i
	}
	return &Embedder{index: index}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "lexicon" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return domain.EmbeddingDimension }

// Embed never fails; the error is part of the domain.Embedder contract.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	return e.Vector(text), nil
}

// Vector computes count(term)/max(tokens, 1) for each lexicon term.
func (e *Embedder) Vector(text string) []float64 {
	vec := make([]float64, domain.EmbeddingDimension)
	tokens := Tokenize(text)
	total := float64(max(len(tokens), 1))
	for _, tok := range tokens {
		if idx, ok := e.index[tok]; ok && idx < len(vec) {
			vec[idx]++
		}
	}
	for i := range Terms {
		vec[i] /= total
	}
	return vec
}

// Tokenize lower-cases text and returns its word tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
