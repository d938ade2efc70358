package answer

import (
	"fmt"
	"regexp"
	"strings"

	"legalrag/internal/domain"
)

// Topic names reported in domain.Synthesis.
const (
	TopicLiability       = "liability"
	TopicTermination     = "termination"
	TopicConfidentiality = "confidentiality"
	TopicPayment         = "payment"
	TopicIP              = "intellectual_property"
	TopicGeneral         = "general"
)

// NoSpecificAnswer is returned by the general fallback when no sentence overlaps the question.
const (
	NoSpecificAnswer = "I found relevant information in the document, but cannot provide a specific answer to your question based on the available context."
	confidenceCap    = 0.9
)

var (
	noticePattern  = regexp.MustCompile(`(\d+)\s*days?\s*(?:written\s*)?notice`)
	yearsPattern   = regexp.MustCompile(`(\d+)\s*years?`)
	paymentPattern = regexp.MustCompile(`(\d+)\s*days?.*?(?:payment|receipt)`)
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	wordPattern    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// handler answers one topic. Confidence is min(0.9, base + found*step) where found is
// the number of indicators present in the context.
type handler struct {
	topic      string
	keywords   []string
	indicators []string
	base, step float64
	compose    func(ctx string, found int) string
}

// Synthesizer is the rule-based answer generator. Handlers are tried in order and the
// first one whose keyword appears in the question answers it.
type Synthesizer struct {
	handlers []handler
}

var _ domain.Synthesizer = (*Synthesizer)(nil)

// NewSynthesizer returns a synthesizer with the built-in topic table.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{handlers: []handler{
		{
			topic:      TopicLiability,
			keywords:   []string{"liability"},
			indicators: []string{"limited", "excluded", "direct damages", "consequential", "indirect"},
			base:       0.5, step: 0.10,
			compose: composeLiability,
		},
		{
			topic:      TopicTermination,
			keywords:   []string{"termination", "terminate"},
			indicators: []string{"notice", "days", "breach", "immediate", "written"},
			base:       0.4, step: 0.10,
			compose: composeTermination,
		},
		{
			topic:      TopicConfidentiality,
			keywords:   []string{"confidential", "disclosure"},
			indicators: []string{"confidential", "proprietary", "disclosure", "years", "survive"},
			base:       0.5, step: 0.08,
			compose: composeConfidentiality,
		},
		{
			topic:      TopicPayment,
			keywords:   []string{"payment", "invoice"},
			indicators: []string{"payment", "invoice", "days", "interest", "late", "overdue"},
			base:       0.5, step: 0.08,
			compose: composePayment,
		},
		{
			topic:      TopicIP,
			keywords:   []string{"intellectual property", "copyright"},
			indicators: []string{"intellectual property", "copyright", "patent", "trademark", "ownership", "rights"},
			base:       0.4, step: 0.10,
			compose: composeIP,
		},
	}}
}

// Route returns the topic that would answer question.
func (s *Synthesizer) Route(question string) string {
	if h := s.route(strings.ToLower(question)); h != nil {
		return h.topic
	}
	return TopicGeneral
}

// Synthesize answers question from context.
func (s *Synthesizer) Synthesize(question, context string) domain.Synthesis {
	h := s.route(strings.ToLower(question))
	if h == nil {
		text, conf := generalAnswer(question, context)
		return domain.Synthesis{Text: text, Confidence: conf, Topic: TopicGeneral}
	}
	lower := strings.ToLower(context)
	found := 0
	for _, ind := range h.indicators {
		if strings.Contains(lower, ind) {
			found++
		}
	}
	return domain.Synthesis{
		Text:       strings.TrimSpace(h.compose(lower, found)),
		Confidence: min(confidenceCap, h.base+float64(found)*h.step),
		Topic:      h.topic,
	}
}

func (s *Synthesizer) route(q string) *handler {
	for i := range s.handlers {
		for _, kw := range s.handlers[i].keywords {
			if strings.Contains(q, kw) {
				return &s.handlers[i]
			}
		}
	}
	return nil
}

func composeLiability(ctx string, _ int) string {
	if !strings.Contains(ctx, "limited") {
		return "The document contains liability provisions, but specific limitations are not clearly defined in the available context."
	}
	var b strings.Builder
	b.WriteString("Based on the document, liability appears to be limited. ")
	if strings.Contains(ctx, "direct damages") {
		b.WriteString("The liability is typically limited to direct damages only. ")
	}
	if strings.Contains(ctx, "consequential") || strings.Contains(ctx, "indirect") {
		b.WriteString("Consequential and indirect damages are generally excluded.")
	}
	return b.String()
}

func composeTermination(ctx string, found int) string {
	var b strings.Builder
	b.WriteString("Based on the document, ")
	if strings.Contains(ctx, "notice") {
		if m := noticePattern.FindStringSubmatch(ctx); m != nil {
			fmt.Fprintf(&b, "termination requires %s days written notice. ", m[1])
		} else {
			b.WriteString("termination requires written notice. ")
		}
	}
	if strings.Contains(ctx, "breach") {
		b.WriteString("Immediate termination may be allowed in case of material breach. ")
	}
	if found == 0 {
		b.WriteString("termination provisions exist but specific terms are not clear in the available context.")
	}
	return b.String()
}

func composeConfidentiality(ctx string, _ int) string {
	var b strings.Builder
	b.WriteString("Based on the document, ")
	if !strings.Contains(ctx, "confidential") {
		b.WriteString("confidentiality provisions may exist but are not clearly defined in the available context.")
		return b.String()
	}
	b.WriteString("there are confidentiality obligations. ")
	if m := yearsPattern.FindStringSubmatch(ctx); m != nil {
		fmt.Fprintf(&b, "The confidentiality obligation lasts for %s years. ", m[1])
	}
	if strings.Contains(ctx, "survive") {
		b.WriteString("These obligations survive termination of the agreement.")
	}
	return b.String()
}

func composePayment(ctx string, found int) string {
	var b strings.Builder
	b.WriteString("Based on the document, ")
	if m := paymentPattern.FindStringSubmatch(ctx); m != nil {
		fmt.Fprintf(&b, "payment is due within %s days. ", m[1])
	}
	if strings.Contains(ctx, "interest") || strings.Contains(ctx, "late") {
		b.WriteString("Late payment penalties or interest charges may apply. ")
	}
	if found == 0 {
		b.WriteString("payment terms exist but specific details are not clear in the available context.")
	}
	return b.String()
}

func composeIP(ctx string, found int) string {
	var b strings.Builder
	b.WriteString("Based on the document, ")
	if strings.Contains(ctx, "ownership") {
		b.WriteString("intellectual property ownership is addressed. ")
	}
	if strings.Contains(ctx, "rights") {
		b.WriteString("Intellectual property rights are defined. ")
	}
	if found == 0 {
		b.WriteString("intellectual property provisions may exist but are not clearly defined in the available context.")
	}
	return b.String()
}

// generalAnswer picks the context sentence sharing the most words with the question.
func generalAnswer(question, context string) (string, float64) {
	qwords := wordSet(question)
	best, bestOverlap := "", 0
	for _, sentence := range sentenceSplit.Split(context, -1) {
		overlap := 0
		for w := range wordSet(sentence) {
			if _, ok := qwords[w]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best, bestOverlap = strings.TrimSpace(sentence), overlap
		}
	}
	if bestOverlap == 0 {
		return NoSpecificAnswer, 0.3
	}
	return "Based on the document context: " + best, min(0.8, 0.3+float64(bestOverlap)*0.1)
}

func wordSet(s string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
