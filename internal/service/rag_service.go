package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legalrag/internal/domain"
)

// Answer method and model labels.
const (
	MethodRAG      = "RAG"
	ModelHeuristic = "heuristic"

	NoInformationAnswer = "No relevant information found in the document(s)."

	DefaultAnswerTopK = 3
	DefaultSearchTopK = 5
)

// ClauseExtractor finds clauses in raw text.
type ClauseExtractor interface {
	Extract(text string) []domain.Clause
}

// DocumentAnalyzer builds the full heuristic report for a text.
type DocumentAnalyzer interface {
	Analyze(text, documentID string) domain.AnalysisReport
}

// IngestResult describes one ingested document.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks_created"`
	Replaced   bool   `json:"replaced"`
}

// RAGService coordinates ingestion, retrieval and answering, and fronts the
// clause and analysis engines.
type RAGService struct {
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.VectorStore
	synth     domain.Synthesizer
	extractor ClauseExtractor
	analyzer  DocumentAnalyzer
	generator domain.Generator

	logger     *slog.Logger
	answerTopK int
	searchTopK int
	newID      func() string
	now        func() time.Time
}

// Option configures a RAGService.
type Option func(*RAGService)

// WithGenerator sets a hosted generator used before the heuristic synthesizer.
func WithGenerator(g domain.Generator) Option {
	return func(s *RAGService) { s.generator = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *RAGService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopK sets how many chunks answers and searches retrieve by default.
func WithTopK(answer, search int) Option {
	return func(s *RAGService) {
		if answer > 0 {
			s.answerTopK = answer
		}
		if search > 0 {
			s.searchTopK = search
		}
	}
}

// NewRAGService wires the pipeline components.
func NewRAGService(
	chunker domain.Chunker,
	embedder domain.Embedder,
	store domain.VectorStore,
	synth domain.Synthesizer,
	extractor ClauseExtractor,
	analyzer DocumentAnalyzer,
	opts ...Option,
) *RAGService {
	s := &RAGService{
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		synth:      synth,
		extractor:  extractor,
		analyzer:   analyzer,
		logger:     slog.Default(),
		answerTopK: DefaultAnswerTopK,
		searchTopK: DefaultSearchTopK,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestDocument chunks, embeds and indexes text under documentID. An empty id is
// replaced by a generated one. Re-ingesting an id replaces its previous chunks.
func (s *RAGService) IngestDocument(ctx context.Context, documentID, text string, metadata map[string]any) (IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return IngestResult{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if documentID == "" {
		documentID = s.newID()
	}

	doc := domain.Document{ID: documentID, Content: text, Metadata: metadata, IngestedAt: s.now().UTC()}
	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		return IngestResult{}, fmt.Errorf("chunk %s: %w", documentID, err)
	}

	vectors := make([][]float64, len(chunks))
	for i, ch := range chunks {
		vec, err := s.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return IngestResult{}, fmt.Errorf("embed %s: %w", ch.ChunkID, err)
		}
		vectors[i] = vec
	}

	replaced, err := s.store.Replace(doc, chunks, vectors)
	if err != nil {
		return IngestResult{}, fmt.Errorf("index %s: %w", documentID, err)
	}

	s.logger.Info("document ingested",
		"document_id", documentID,
		"chunks", len(chunks),
		"replaced", replaced,
		"embedder", s.embedder.Name())
	return IngestResult{DocumentID: documentID, Chunks: len(chunks), Replaced: replaced}, nil
}

// IngestFiles ingests every file matched by the given paths or glob patterns whose
// extension is in exts. The document id is the file name without its extension.
func (s *RAGService) IngestFiles(ctx context.Context, patterns []string, exts []string) ([]IngestResult, error) {
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, p)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if HasExtension(m, exts) {
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no documents with extensions %v found", domain.ErrInvalidInput, exts)
	}

	results := make([]IngestResult, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return results, err
		}
		res, err := s.IngestDocument(ctx, DocumentIDFromPath(f), string(data), map[string]any{"source": f})
		if err != nil {
			return results, fmt.Errorf("%s: %w", f, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// AnswerQuestion retrieves the top chunks for question, optionally within one
// document, and answers from their joined text.
func (s *RAGService) AnswerQuestion(ctx context.Context, question, documentID string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	hits, err := s.search(ctx, question, s.answerTopK, documentID)
	if err != nil {
		return domain.Answer{}, err
	}
	if len(hits) == 0 {
		return domain.Answer{Answer: NoInformationAnswer, Confidence: 0, Sources: []string{}, Method: MethodRAG}, nil
	}

	texts := make([]string, len(hits))
	sources := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
		sources[i] = h.ChunkID
	}
	passage := strings.Join(texts, "\n\n")

	synth := s.synth.Synthesize(question, passage)
	ans := domain.Answer{
		Answer:      synth.Text,
		Confidence:  synth.Confidence,
		Sources:     sources,
		Method:      MethodRAG,
		ContextUsed: len(hits),
		Model:       ModelHeuristic,
	}

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, question, passage)
		if err != nil {
			s.logger.Warn("generator failed, using heuristic answer", "generator", s.generator.Name(), "error", err)
		} else {
			ans.Answer = text
			ans.Model = s.generator.Name()
		}
	}

	s.logger.Debug("question answered",
		"topic", synth.Topic,
		"confidence", ans.Confidence,
		"sources", len(sources),
		"model", ans.Model)
	return ans, nil
}

// Search returns the topK chunks most similar to query. topK <= 0 uses the configured default.
func (s *RAGService) Search(ctx context.Context, query string, topK int, documentID string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.searchTopK
	}
	return s.search(ctx, query, topK, documentID)
}

func (s *RAGService) search(ctx context.Context, query string, topK int, documentID string) ([]domain.SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.store.Search(vec, topK, documentID)
}

// ExtractClauses returns the deduplicated clauses of text.
func (s *RAGService) ExtractClauses(text string) ([]domain.Clause, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	clauses := s.extractor.Extract(text)
	if clauses == nil {
		clauses = []domain.Clause{}
	}
	return clauses, nil
}

// AnalyzeDocument builds the analysis report for text and ingests it so it can be
// queried afterwards.
func (s *RAGService) AnalyzeDocument(ctx context.Context, text, documentID, documentType string) (domain.AnalysisReport, error) {
	if strings.TrimSpace(text) == "" {
		return domain.AnalysisReport{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if documentID == "" {
		documentID = s.newID()
	}
	if documentType == "" {
		documentType = "contract"
	}

	report := s.analyzer.Analyze(text, documentID)

	res, err := s.IngestDocument(ctx, documentID, text, map[string]any{
		"document_type": documentType,
		"analysis_date": report.AnalyzedAt.Format(time.RFC3339),
	})
	if err != nil {
		return domain.AnalysisReport{}, err
	}
	report.RAG = &domain.RAGInfo{ChunksCreated: res.Chunks, AvailableForQA: true, DocumentID: documentID}

	s.logger.Info("document analyzed",
		"document_id", documentID,
		"clauses", report.Clauses.TotalClauses,
		"risk", report.Risk.OverallRiskLevel)
	return report, nil
}

// Document returns an ingested document and its chunk count.
func (s *RAGService) Document(id string) (domain.Document, int, error) {
	doc, chunks, ok := s.store.Document(id)
	if !ok {
		return domain.Document{}, 0, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	return doc, chunks, nil
}

// Stats reports the index size.
func (s *RAGService) Stats() domain.StoreStats { return s.store.Stats() }

// Reset empties the index.
func (s *RAGService) Reset() { s.store.Reset() }

// Close releases the generator if it holds resources.
func (s *RAGService) Close() error {
	if c, ok := s.generator.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// HasExtension reports whether path ends in one of exts (case-insensitive). Empty exts matches all.
func HasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == e {
			return true
		}
	}
	return false
}

// DocumentIDFromPath returns the file name of path without its extension.
func DocumentIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
