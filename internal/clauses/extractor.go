package clauses

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"legalrag/internal/domain"
)

const (
	// PatternConfidence is assigned to every pattern-based match.
	PatternConfidence = 0.8
	// ContextWindow is the number of bytes kept on each side of a match.
	ContextWindow = 200
	// DuplicateThreshold is the Jaccard similarity above which a clause is a duplicate.
	DuplicateThreshold = 0.8
)

type compiledCategory struct {
	typ      string
	title    string
	patterns []*regexp.Regexp
}

// Extractor finds legal clauses by pattern and windows them into context snippets.
type Extractor struct {
	categories []compiledCategory
}

// NewExtractor compiles the given categories, or DefaultCategories when none are given.
func NewExtractor(categories ...Category) (*Extractor, error) {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	titler := cases.Title(language.English)
	e := &Extractor{categories: make([]compiledCategory, 0, len(categories))}
	for _, c := range categories {
		cc := compiledCategory{
			typ:   c.Type,
			title: titler.String(strings.ReplaceAll(c.Type, "_", " ")) + " Clause",
		}
		for _, p := range c.Patterns {
			re, err := regexp.Compile(`(?is)` + p)
			if err != nil {
				return nil, fmt.Errorf("%w: clause pattern %q for %s: %v", domain.ErrInvalidConfig, p, c.Type, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		e.categories = append(e.categories, cc)
	}
	return e, nil
}

// MustNewExtractor is NewExtractor for the built-in library.
func MustNewExtractor() *Extractor {
	e, err := NewExtractor()
	if err != nil {
		panic(err)
	}
	return e
}

// Extract returns the deduplicated clauses found in text, in discovery order
// (category order, then pattern order, then position).
func (e *Extractor) Extract(text string) []domain.Clause {
	var raw []domain.Clause
	for _, c := range e.categories {
		for _, re := range c.patterns {
			for _, m := range re.FindAllStringIndex(text, -1) {
				start := runeStart(text, max(0, m[0]-ContextWindow))
				end := runeEnd(text, min(len(text), m[1]+ContextWindow))
				raw = append(raw, domain.Clause{
					Type:          c.typ,
					Title:         c.title,
					Content:       strings.TrimSpace(text[start:end]),
					Confidence:    PatternConfidence,
					StartPosition: m[0],
					EndPosition:   m[1],
				})
			}
		}
	}
	return Deduplicate(raw)
}

// Deduplicate keeps a clause only if its content is at most DuplicateThreshold
// similar to every clause already kept.
func Deduplicate(clauses []domain.Clause) []domain.Clause {
	kept := make([]domain.Clause, 0, len(clauses))
	keptWords := make([]map[string]struct{}, 0, len(clauses))
	for _, c := range clauses {
		words := wordSet(c.Content)
		dup := false
		for _, other := range keptWords {
			if jaccard(words, other) > DuplicateThreshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
			keptWords = append(keptWords, words)
		}
	}
	return kept
}

// Similarity is the Jaccard index of the lower-cased word sets of a and b.
func Similarity(a, b string) float64 {
	return jaccard(wordSet(a), wordSet(b))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// runeStart moves i back to the start of the rune containing it.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeEnd moves i forward past a partially included rune.
func runeEnd(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
