package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"legalrag/internal/domain"
)

// Defaults used when the configuration leaves chunk geometry unset.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// WordChunker splits text into fixed-size word windows with overlap.
type WordChunker struct {
	chunkSize int
	overlap   int
}

// NewWordChunker returns a chunker producing windows of chunkSize words that overlap by
// overlap words. The step between windows must be positive.
func NewWordChunker(chunkSize, overlap int) (*WordChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidConfig, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap (%d) must be smaller than chunk size (%d)", domain.ErrInvalidConfig, overlap, chunkSize)
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Step is the distance in words between the starts of consecutive windows.
func (c *WordChunker) Step() int { return c.chunkSize - c.overlap }

// Chunk splits the document on whitespace. Windows start at multiples of Step and the
// last one may be shorter than the chunk size. Empty documents produce no chunks.
func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	words := strings.Fields(document.Content)
	if len(words) == 0 {
		return nil, nil
	}
	step := c.Step()
	chunks := make([]domain.Chunk, 0, (len(words)+step-1)/step)
	for start, idx := 0, 0; start < len(words); start, idx = start+step, idx+1 {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			ChunkID:    ChunkID(document.ID, idx),
			DocumentID: document.ID,
			Index:      idx,
			Text:       strings.Join(words[start:end], " "),
			WordStart:  start,
			WordEnd:    end,
		})
	}
	return chunks, nil
}

// ChunkID derives the identifier of the idx-th chunk of a document.
func ChunkID(documentID string, idx int) string {
	return documentID + "_chunk_" + strconv.Itoa(idx)
}
