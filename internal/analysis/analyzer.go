// Package analysis composes the per-document heuristic signals into one report.
package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"legalrag/internal/domain"
	"legalrag/internal/risk"
)

const (
	maxKeyTerms     = 20
	exampleLength   = 100
	titleScanLines  = 5
	summaryTopTypes = 3
)

var (
	wordPattern     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
	numberedPattern = regexp.MustCompile(`^\s*\d+\.?\s+[A-Z]`)
	partiesPattern  = regexp.MustCompile(`between\s+(.+?)\s+and\s+([^.]+)`)
)

type termCategory struct {
	name  string
	terms []string
}

var keyTermCategories = []termCategory{
	{"contract_terms", []string{"agreement", "contract", "party", "parties", "obligation", "right"}},
	{"liability_terms", []string{"liability", "damages", "loss", "harm", "injury", "claim"}},
	{"time_terms", []string{"term", "duration", "period", "expiry", "renewal", "notice"}},
	{"payment_terms", []string{"payment", "fee", "cost", "invoice", "billing", "charge"}},
	{"legal_terms", []string{"law", "jurisdiction", "court", "dispute", "arbitration", "mediation"}},
}

var (
	sectionIndicators   = []string{"section", "article", "clause", "paragraph"}
	signatureIndicators = []string{"signature", "signed", "witness", "date", "executed"}
)

// ClauseExtractor finds clauses in raw text.
type ClauseExtractor interface {
	Extract(text string) []domain.Clause
}

// Analyzer builds AnalysisReports. All of its checks are total: empty text yields a
// zero-valued report with LOW risk.
type Analyzer struct {
	extractor    ClauseExtractor
	summarizer   domain.Summarizer
	maxSentences int
	now          func() time.Time
}

// NewAnalyzer returns an analyzer. summarizer may be nil, in which case no highlights are produced.
func NewAnalyzer(extractor ClauseExtractor, summarizer domain.Summarizer, maxSentences int) *Analyzer {
	return &Analyzer{
		extractor:    extractor,
		summarizer:   summarizer,
		maxSentences: maxSentences,
		now:          time.Now,
	}
}

// Analyze computes the full report for text.
func (a *Analyzer) Analyze(text, documentID string) domain.AnalysisReport {
	clauses := a.extractor.Extract(text)
	riskReport := risk.AssessRisk(text)
	sentences := splitSentences(text)

	report := domain.AnalysisReport{
		DocumentID: documentID,
		AnalyzedAt: a.now().UTC(),
		Stats:      Stats(text),
		Clauses:    AnalyzeClauses(text, clauses),
		Risk:       riskReport,
		KeyTerms:   KeyTerms(text),
		Structure:  Structure(text),
		Compliance: risk.CheckCompliance(text),
		Summary:    summarize(text, len(sentences), clauses, riskReport.OverallRiskLevel),
	}
	if a.summarizer != nil && len(sentences) > 0 {
		// highlights are best effort
		if h, err := a.summarizer.Summarize(text, a.maxSentences); err == nil {
			report.Highlights = h
		}
	}
	return report
}

// Stats counts words, sentences, paragraphs and characters and derives readability.
func Stats(text string) domain.DocumentStats {
	words := len(wordPattern.FindAllString(text, -1))
	sentences := len(splitSentences(text))
	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	return domain.DocumentStats{
		WordCount:           words,
		SentenceCount:       sentences,
		ParagraphCount:      paragraphs,
		CharacterCount:      utf8.RuneCountInString(text),
		AvgWordsPerSentence: float64(words) / float64(max(sentences, 1)),
		ReadabilityScore:    readability(words, sentences),
	}
}

// readability is 100 - 2*(avg sentence length - 15), clamped to [0, 100].
func readability(words, sentences int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	avg := float64(words) / float64(sentences)
	score := math.Min(100, math.Max(0, 100-(avg-15)*2))
	return round(score, 2)
}

// AnalyzeClauses groups clauses by type. Density is clauses per 1000 whitespace-separated words.
func AnalyzeClauses(text string, clauses []domain.Clause) domain.ClauseAnalysis {
	out := domain.ClauseAnalysis{
		TotalClauses:    len(clauses),
		ClauseTypes:     map[string]domain.ClauseTypeSummary{},
		ClauseDensity:   float64(len(clauses)) / float64(max(len(strings.Fields(text)), 1)) * 1000,
		DetailedClauses: clauses,
	}
	if out.DetailedClauses == nil {
		out.DetailedClauses = []domain.Clause{}
	}

	sums := map[string]float64{}
	for _, c := range clauses {
		s := out.ClauseTypes[c.Type]
		s.Count++
		s.Examples = append(s.Examples, truncateRunes(c.Content, exampleLength)+"...")
		out.ClauseTypes[c.Type] = s
		sums[c.Type] += c.Confidence
	}
	for typ, s := range out.ClauseTypes {
		s.AvgConfidence = round(sums[typ]/float64(s.Count), 3)
		out.ClauseTypes[typ] = s
	}
	return out
}

// KeyTerms counts whole-word occurrences of the legal term lists. Results are sorted by
// frequency, ties keeping category order, and capped at 20.
func KeyTerms(text string) []domain.KeyTerm {
	counts := map[string]int{}
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		counts[w]++
	}

	terms := []domain.KeyTerm{}
	for _, cat := range keyTermCategories {
		for _, term := range cat.terms {
			if n := counts[term]; n > 0 {
				terms = append(terms, domain.KeyTerm{
					Term:       term,
					Category:   cat.name,
					Frequency:  n,
					Importance: min(10, n*2),
				})
			}
		}
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Frequency > terms[j].Frequency })
	if len(terms) > maxKeyTerms {
		terms = terms[:maxKeyTerms]
	}
	return terms
}

// Structure detects layout features line by line.
func Structure(text string) domain.DocumentStructure {
	lines := strings.Split(text, "\n")
	var s domain.DocumentStructure

	for _, line := range lines[:min(titleScanLines, len(lines))] {
		if strings.TrimSpace(line) != "" && (isUpper(line) || isTitle(line)) {
			s.HasTitle = true
			break
		}
	}
	for _, line := range lines {
		if numberedPattern.MatchString(line) {
			s.EstimatedSections++
		}
		if !s.HasSections && containsAny(strings.ToLower(line), sectionIndicators) {
			s.HasSections = true
		}
	}
	s.HasNumberedClauses = s.EstimatedSections > 0
	s.HasSignatureBlock = containsAny(strings.ToLower(text), signatureIndicators)
	return s
}

// summarize writes the one-paragraph overview.
func summarize(text string, sentences int, clauses []domain.Clause, riskLevel string) string {
	lower := strings.ToLower(text)

	docType := "legal document"
	switch {
	case strings.Contains(lower, "agreement"):
		docType = "agreement"
	case strings.Contains(lower, "contract"):
		docType = "contract"
	case strings.Contains(lower, "policy"):
		docType = "policy"
	}

	parties := ""
	if m := partiesPattern.FindStringSubmatch(lower); m != nil {
		parties = fmt.Sprintf(" between %s and %s", strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This %s%s contains %d main provisions. ", docType, parties, sentences)
	if types := distinctTypes(clauses, summaryTopTypes); len(types) > 0 {
		fmt.Fprintf(&b, "Key areas covered include: %s. ", strings.Join(types, ", "))
	}
	fmt.Fprintf(&b, "Overall risk level: %s.", riskLevel)
	return b.String()
}

func distinctTypes(clauses []domain.Clause, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range clauses {
		if seen[c.Type] {
			continue
		}
		seen[c.Type] = true
		out = append(out, c.Type)
		if len(out) == limit {
			break
		}
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every word of s starts upper-case and continues lower-case.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
