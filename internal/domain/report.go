package domain

import "time"

// Clause is a classified, context-windowed span of document text.
// Positions are byte offsets of the pattern match in the source text.
type Clause struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Confidence    float64 `json:"confidence"`
	StartPosition int     `json:"start_position"`
	EndPosition   int     `json:"end_position"`
}

// Risk levels.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// RiskFactor records the indicators of one tier found in a document.
type RiskFactor struct {
	Level      string   `json:"level"`
	Indicators []string `json:"indicators"`
	Count      int      `json:"count"`
}

// RiskReport is the categorical risk assessment of a document.
type RiskReport struct {
	OverallRiskLevel string       `json:"overall_risk_level"`
	Score            int          `json:"score"`
	RiskFactors      []RiskFactor `json:"risk_factors"`
	Recommendations  []string     `json:"recommendations"`
}

// ComplianceArea is one compliance area detected in a document.
type ComplianceArea struct {
	Area            string   `json:"area"`
	IndicatorsFound []string `json:"indicators_found"`
	CoverageLevel   int      `json:"coverage_level"`
}

// ComplianceReport summarizes compliance coverage, scored 0-100.
type ComplianceReport struct {
	AreasCovered    []ComplianceArea `json:"areas_covered"`
	ComplianceScore int              `json:"compliance_score"`
	Recommendations []string         `json:"recommendations"`
}

// DocumentStats holds basic counts for a document.
type DocumentStats struct {
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	ParagraphCount      int     `json:"paragraph_count"`
	CharacterCount      int     `json:"character_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	ReadabilityScore    float64 `json:"readability_score"`
}

// ClauseTypeSummary aggregates the clauses of one type.
type ClauseTypeSummary struct {
	Count         int      `json:"count"`
	AvgConfidence float64  `json:"avg_confidence"`
	Examples      []string `json:"examples"`
}

// ClauseAnalysis groups extracted clauses by type.
type ClauseAnalysis struct {
	TotalClauses    int                          `json:"total_clauses"`
	ClauseTypes     map[string]ClauseTypeSummary `json:"clause_types"`
	ClauseDensity   float64                      `json:"clause_density"`
	DetailedClauses []Clause                     `json:"detailed_clauses"`
}

// KeyTerm is a legal term with its frequency in a document.
type KeyTerm struct {
	Term       string `json:"term"`
	Category   string `json:"category"`
	Frequency  int    `json:"frequency"`
	Importance int    `json:"importance"`
}

// DocumentStructure holds layout flags.
type DocumentStructure struct {
	HasTitle           bool `json:"has_title"`
	HasSections        bool `json:"has_sections"`
	HasNumberedClauses bool `json:"has_numbered_clauses"`
	HasSignatureBlock  bool `json:"has_signature_block"`
	EstimatedSections  int  `json:"estimated_sections"`
}

// RAGInfo describes how an analyzed document was made available for Q&A.
type RAGInfo struct {
	ChunksCreated  int    `json:"chunks_created"`
	AvailableForQA bool   `json:"available_for_qa"`
	DocumentID     string `json:"document_id"`
}

// AnalysisReport aggregates every heuristic signal computed for a document.
type AnalysisReport struct {
	DocumentID string            `json:"document_id,omitempty"`
	AnalyzedAt time.Time         `json:"analysis_timestamp"`
	Stats      DocumentStats     `json:"document_stats"`
	Clauses    ClauseAnalysis    `json:"clause_analysis"`
	Risk       RiskReport        `json:"risk_assessment"`
	KeyTerms   []KeyTerm         `json:"key_terms"`
	Structure  DocumentStructure `json:"document_structure"`
	Compliance ComplianceReport  `json:"compliance_indicators"`
	Summary    string            `json:"summary"`
	Highlights string            `json:"highlights,omitempty"`
	RAG        *RAGInfo          `json:"rag_info,omitempty"`
}
