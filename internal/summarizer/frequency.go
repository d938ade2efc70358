// Package summarizer picks highlight sentences from legal text.
package summarizer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"legalrag/internal/domain"
)

// DefaultMaxSentences is used when callers pass a non-positive limit.
const DefaultMaxSentences = 3

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// FrequencySummarizer ranks sentences by the normalized frequency of their content words.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

var _ domain.Summarizer = (*FrequencySummarizer)(nil)

// NewFrequencySummarizer creates a summarizer. Extra stopwords are added to the built-in
// English and legal boilerplate lists.
func NewFrequencySummarizer(extraStopwords ...string) *FrequencySummarizer {
	sw := defaultStopwords()
	for _, w := range extraStopwords {
		sw[strings.ToLower(w)] = struct{}{}
	}
	return &FrequencySummarizer{stopwords: sw}
}

// Summarize returns up to maxSentences of the highest scoring sentences in document order.
// Text without sentence punctuation is returned trimmed.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	tokenized := make([][]string, len(sentences))
	freq := map[string]float64{}
	for i, sent := range sentences {
		tokenized[i] = s.tokens(sent)
		for _, tok := range tokenized[i] {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, toks := range tokenized {
		total := 0.0
		for _, tok := range toks {
			total += freq[tok] / maxF
		}
		// long sentences would otherwise always win
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = scored{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(maxSentences, len(scores))
	selected := make([]int, n)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	out := make([]string, 0, n)
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

// tokens returns the lowercased content words of text.
func (s *FrequencySummarizer) tokens(text string) []string {
	all := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := all[:0]
	for _, tok := range all {
		if _, stop := s.stopwords[tok]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into",
		"about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "should", "now", "not", "no", "any", "all", "each",
		// drafting boilerplate
		"shall", "may", "must", "hereby", "herein", "hereof", "hereto", "thereof", "therein", "whereas",
		"pursuant", "agreement", "party", "parties",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
