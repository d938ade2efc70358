package domain

import (
	"context"
	"time"
)

// EmbeddingDimension is the fixed width of every embedding vector in the index.
const EmbeddingDimension = 384

// Document represents a single legal text loaded into the system.
type Document struct {
	ID         string         `json:"id"`
	Content    string         `json:"-"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	IngestedAt time.Time      `json:"ingested_at"`
}

// Chunk is a contiguous word window of a document used for retrieval.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"chunk_index"`
	Text       string `json:"text"`
	WordStart  int    `json:"word_start"`
	WordEnd    int    `json:"word_end"`
}

// SearchResult represents a matching chunk with its cosine similarity to the query.
type SearchResult struct {
	ChunkID    string  `json:"chunk_id"`
	Similarity float64 `json:"similarity"`
	Text       string  `json:"text"`
	DocumentID string  `json:"doc_id"`
	Index      int     `json:"chunk_index"`
}

// Answer is the result of a retrieval-augmented question.
type Answer struct {
	Answer      string   `json:"answer"`
	Confidence  float64  `json:"confidence"`
	Sources     []string `json:"sources"`
	Method      string   `json:"method"`
	ContextUsed int      `json:"context_used"`
	Model       string   `json:"model,omitempty"`
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorStore keeps documents, their chunks and chunk vectors, and supports similarity search.
// Replace must make a document's full chunk batch visible atomically.
type VectorStore interface {
	Replace(document Document, chunks []Chunk, vectors [][]float64) (replaced bool, err error)
	Search(vector []float64, topK int, documentID string) ([]SearchResult, error)
	Document(id string) (Document, int, bool)
	Stats() StoreStats
	Reset()
}

// StoreStats reports the size of a vector store.
type StoreStats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

// Synthesis is an answer body with its heuristic confidence.
type Synthesis struct {
	Text       string
	Confidence float64
	Topic      string
}

// Synthesizer produces an answer from a question and retrieved context without network calls.
type Synthesizer interface {
	Synthesize(question, context string) Synthesis
}

// Generator produces an answer text with a hosted language model.
type Generator interface {
	Name() string
	Generate(ctx context.Context, question, context string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
