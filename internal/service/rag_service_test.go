package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/analysis"
	"legalrag/internal/answer"
	"legalrag/internal/chunker"
	"legalrag/internal/clauses"
	"legalrag/internal/domain"
	"legalrag/internal/embedding/lexicon"
	"legalrag/internal/summarizer"
	"legalrag/internal/vectorstore/memory"
)

type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Name() string { return "fake-llm" }

func (f *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type failingEmbedder struct{}

func (failingEmbedder) Name() string   { return "failing" }
func (failingEmbedder) Dimension() int { return domain.EmbeddingDimension }
func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedding backend down")
}

func newTestService(t *testing.T, opts ...Option) *RAGService {
	t.Helper()
	ch, err := chunker.NewWordChunker(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	require.NoError(t, err)
	extractor := clauses.MustNewExtractor()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s := NewRAGService(
		ch,
		lexicon.NewEmbedder(),
		memory.NewStorage(domain.EmbeddingDimension),
		answer.NewSynthesizer(),
		extractor,
		analysis.NewAnalyzer(extractor, summarizer.NewFrequencySummarizer(), 3),
		opts...,
	)
	s.newID = func() string { return "generated-id" }
	return s
}

// contractText returns a document of exactly n words containing a termination clause.
func contractText(n int) string {
	clause := strings.Fields("Either party may terminate this Agreement upon 30 days written notice to the other party.")
	words := make([]string, 0, n)
	words = append(words, clause...)
	for len(words) < n {
		words = append(words, "filler")
	}
	return strings.Join(words, " ")
}

func TestEndToEnd_TerminationQuestion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.IngestDocument(ctx, "msa", contractText(1000), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks)
	assert.False(t, res.Replaced)

	_, err = s.IngestDocument(ctx, "nda",
		"Termination of this NDA requires 90 days written notice. Either party may terminate for breach.", nil)
	require.NoError(t, err)

	ans, err := s.AnswerQuestion(ctx, "When can this contract be terminated?", "msa")
	require.NoError(t, err)

	assert.Equal(t, MethodRAG, ans.Method)
	assert.Equal(t, 3, ans.ContextUsed)
	assert.ElementsMatch(t, []string{"msa_chunk_0", "msa_chunk_1", "msa_chunk_2"}, ans.Sources)
	assert.Contains(t, ans.Answer, "30 days")
	assert.NotContains(t, ans.Answer, "90 days")
	assert.GreaterOrEqual(t, ans.Confidence, 0.7)
	assert.Equal(t, ModelHeuristic, ans.Model)
}

func TestAnswerQuestion_EmptyIndex(t *testing.T) {
	s := newTestService(t)

	ans, err := s.AnswerQuestion(context.Background(), "What is the liability?", "")

	require.NoError(t, err)
	assert.Equal(t, NoInformationAnswer, ans.Answer)
	assert.Equal(t, 0.0, ans.Confidence)
	assert.Empty(t, ans.Sources)
	assert.Equal(t, MethodRAG, ans.Method)
}

func TestAnswerQuestion_UnknownDocumentFilter(t *testing.T) {
	s := newTestService(t)
	_, err := s.IngestDocument(context.Background(), "a", "Liability is limited.", nil)
	require.NoError(t, err)

	ans, err := s.AnswerQuestion(context.Background(), "liability?", "missing")

	require.NoError(t, err)
	assert.Equal(t, NoInformationAnswer, ans.Answer)
}

func TestAnswerQuestion_EmptyQuestion(t *testing.T) {
	_, err := newTestService(t).AnswerQuestion(context.Background(), "  ", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswerQuestion_GeneratorUsedWhenAvailable(t *testing.T) {
	gen := &fakeGenerator{text: "Thirty days notice is required."}
	s := newTestService(t, WithGenerator(gen))
	_, err := s.IngestDocument(context.Background(), "msa", contractText(100), nil)
	require.NoError(t, err)

	ans, err := s.AnswerQuestion(context.Background(), "How do I terminate?", "")

	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Thirty days notice is required.", ans.Answer)
	assert.Equal(t, "fake-llm", ans.Model)
	// confidence stays heuristic
	assert.GreaterOrEqual(t, ans.Confidence, 0.7)
}

func TestAnswerQuestion_GeneratorFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrGeneratorUnavailable}
	s := newTestService(t, WithGenerator(gen))
	_, err := s.IngestDocument(context.Background(), "msa", contractText(100), nil)
	require.NoError(t, err)

	ans, err := s.AnswerQuestion(context.Background(), "How do I terminate?", "")

	require.NoError(t, err)
	assert.Equal(t, ModelHeuristic, ans.Model)
	assert.Contains(t, ans.Answer, "30 days written notice")
}

func TestIngestDocument_Validation(t *testing.T) {
	s := newTestService(t)

	_, err := s.IngestDocument(context.Background(), "x", " \n\t", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, s.Stats().Documents)
}

func TestIngestDocument_GeneratesID(t *testing.T) {
	s := newTestService(t)

	res, err := s.IngestDocument(context.Background(), "", "Payment is due in 30 days.", map[string]any{"k": "v"})

	require.NoError(t, err)
	assert.Equal(t, "generated-id", res.DocumentID)
	doc, chunks, err := s.Document("generated-id")
	require.NoError(t, err)
	assert.Equal(t, 1, chunks)
	assert.Equal(t, "v", doc.Metadata["k"])
}

func TestIngestDocument_ReplaceOnReingest(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.IngestDocument(ctx, "msa", contractText(1000), nil)
	require.NoError(t, err)
	res, err := s.IngestDocument(ctx, "msa", contractText(100), nil)
	require.NoError(t, err)

	assert.True(t, res.Replaced)
	assert.Equal(t, domain.StoreStats{Documents: 1, Chunks: 1}, s.Stats())
}

func TestIngestDocument_EmbedderErrorLeavesIndexUntouched(t *testing.T) {
	ch, err := chunker.NewWordChunker(10, 2)
	require.NoError(t, err)
	store := memory.NewStorage(domain.EmbeddingDimension)
	s := NewRAGService(ch, failingEmbedder{}, store, answer.NewSynthesizer(), clauses.MustNewExtractor(), nil,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err = s.IngestDocument(context.Background(), "doc", "some words here", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding backend down")
	assert.Equal(t, domain.StoreStats{}, store.Stats())
}

func TestSearch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	_, err := s.IngestDocument(ctx, "liab", "Liability liability damages are limited.", nil)
	require.NoError(t, err)
	_, err = s.IngestDocument(ctx, "pay", "Payment terms: invoice payment within 30 days.", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "payment", 0, "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "pay", results[0].DocumentID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)

	results, err = s.Search(ctx, "payment", 5, "liab")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "liab_chunk_0", results[0].ChunkID)

	_, err = s.Search(ctx, "", 5, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractClauses(t *testing.T) {
	s := newTestService(t)

	got, err := s.ExtractClauses("The liability of the supplier is limited to fees paid.")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "liability", got[0].Type)

	got, err = s.ExtractClauses("Nothing of note.")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = s.ExtractClauses("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyzeDocument_IngestsForQA(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	text := "This Agreement is made between Acme and Globex. The Supplier shall indemnify the Customer. " +
		"Liability is limited to direct damages."

	report, err := s.AnalyzeDocument(ctx, text, "", "")
	require.NoError(t, err)

	assert.Equal(t, "generated-id", report.DocumentID)
	require.NotNil(t, report.RAG)
	assert.Equal(t, domain.RAGInfo{ChunksCreated: 1, AvailableForQA: true, DocumentID: "generated-id"}, *report.RAG)
	doc, _, err := s.Document("generated-id")
	require.NoError(t, err)
	assert.Equal(t, "contract", doc.Metadata["document_type"])

	ans, err := s.AnswerQuestion(ctx, "What is the liability?", "generated-id")
	require.NoError(t, err)
	assert.Contains(t, ans.Answer, "liability appears to be limited")
}

func TestAnalyzeDocument_EmptyText(t *testing.T) {
	_, err := newTestService(t).AnalyzeDocument(context.Background(), "", "id", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocument_NotFound(t *testing.T) {
	_, _, err := newTestService(t).Document("nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nda.txt"), []byte("Confidential information is protected."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "msa.md"), []byte(contractText(50)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("binary"), 0o644))
	s := newTestService(t)

	results, err := s.IngestFiles(context.Background(), []string{filepath.Join(dir, "*")}, []string{".txt", "md"})

	require.NoError(t, err)
	require.Len(t, results, 2)
	ids := []string{results[0].DocumentID, results[1].DocumentID}
	assert.ElementsMatch(t, []string{"nda", "msa"}, ids)
	doc, _, err := s.Document("nda")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nda.txt"), doc.Metadata["source"])
}

func TestIngestFiles_NoMatches(t *testing.T) {
	_, err := newTestService(t).IngestFiles(context.Background(), []string{filepath.Join(t.TempDir(), "*.txt")}, []string{".txt"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResetAndClose(t *testing.T) {
	s := newTestService(t)
	_, err := s.IngestDocument(context.Background(), "a", "text", nil)
	require.NoError(t, err)

	s.Reset()

	assert.Equal(t, domain.StoreStats{}, s.Stats())
	assert.NoError(t, s.Close())
}

func TestHelpers(t *testing.T) {
	assert.True(t, HasExtension("a/B.TXT", []string{"txt"}))
	assert.False(t, HasExtension("a/b.pdf", []string{".txt", ".md"}))
	assert.True(t, HasExtension("anything", nil))
	assert.Equal(t, "contract.v2", DocumentIDFromPath("/tmp/contract.v2.txt"))
}
