package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"legalrag/internal/domain"
)

var _ domain.VectorStore = (*Storage)(nil)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Writers hold the lock exclusively while swapping in a whole document batch, so
// readers see either the old chunk set or the new one.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	documents map[string]domain.Document
	vectors   [][]float64
	chunks    []domain.Chunk
}

// NewStorage creates an empty store for vectors of the given width.
func NewStorage(dimension int) *Storage {
	return &Storage{dimension: dimension, documents: make(map[string]domain.Document)}
}

// Replace stores a document with its chunks, dropping any chunks previously indexed for
// the same document id. It reports whether the document was already known.
func (s *Storage) Replace(document domain.Document, chunks []domain.Chunk, vectors [][]float64) (bool, error) {
	if len(chunks) != len(vectors) {
		return false, errors.New("chunks and vectors length mismatch")
	}
	for _, v := range vectors {
		if len(v) != s.dimension {
			return false, errors.New("vector dimension mismatch")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, replaced := s.documents[document.ID]
	keptChunks := make([]domain.Chunk, 0, len(s.chunks)+len(chunks))
	keptVectors := make([][]float64, 0, len(s.vectors)+len(vectors))
	for i := range s.chunks {
		if s.chunks[i].DocumentID == document.ID {
			continue
		}
		keptChunks = append(keptChunks, s.chunks[i])
		keptVectors = append(keptVectors, s.vectors[i])
	}
	s.chunks = append(keptChunks, chunks...)
	s.vectors = append(keptVectors, vectors...)
	s.documents[document.ID] = document
	return replaced, nil
}

// Search returns the topK chunks most similar to vector, optionally restricted to one
// document. Ties keep insertion order.
func (s *Storage) Search(vector []float64, topK int, documentID string) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, 0, len(s.chunks))
	for i := range s.chunks {
		ch := s.chunks[i]
		if documentID != "" && ch.DocumentID != documentID {
			continue
		}
		results = append(results, domain.SearchResult{
			ChunkID:    ch.ChunkID,
			Similarity: CosineSimilarity(vector, s.vectors[i]),
			Text:       ch.Text,
			DocumentID: ch.DocumentID,
			Index:      ch.Index,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Document returns a stored document and the number of chunks indexed for it.
func (s *Storage) Document(id string) (domain.Document, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.Document{}, 0, false
	}
	n := 0
	for i := range s.chunks {
		if s.chunks[i].DocumentID == id {
			n++
		}
	}
	return doc, n, true
}

// Stats reports how many documents and chunks are held.
func (s *Storage) Stats() domain.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StoreStats{Documents: len(s.documents), Chunks: len(s.chunks)}
}

// Reset drops everything.
func (s *Storage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]domain.Document)
	s.vectors = nil
	s.chunks = nil
}

// CosineSimilarity is dot(a,b)/(|a||b|), or 0 when either norm is zero or the
// lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}
