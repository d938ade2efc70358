package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func TestNewWordChunker_RejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name      string
		size, ovl int
	}{
		{"overlap equals size", 10, 10},
		{"overlap larger than size", 10, 20},
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWordChunker(tt.size, tt.ovl)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestWordChunker_ChunkCount(t *testing.T) {
	c, err := NewWordChunker(DefaultChunkSize, DefaultOverlap)
	require.NoError(t, err)

	for _, w := range []int{0, 1, 449, 450, 451, 500, 900, 1000, 2345} {
		chunks, err := c.Chunk(domain.Document{ID: "doc", Content: words(w)})
		require.NoError(t, err)
		want := 0
		if w > 0 {
			want = (w + 449) / 450
		}
		assert.Len(t, chunks, want, "word count %d", w)
	}
}

func TestWordChunker_WindowsOverlap(t *testing.T) {
	c, err := NewWordChunker(DefaultChunkSize, DefaultOverlap)
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "doc", Content: words(1400)})
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	for i := 0; i < len(chunks)-1; i++ {
		assert.Equal(t, i*450, chunks[i].WordStart)
		assert.Equal(t, chunks[i].WordStart+500, chunks[i].WordEnd)
		assert.Equal(t, 50, chunks[i].WordEnd-chunks[i+1].WordStart)
		assert.Len(t, strings.Fields(chunks[i].Text), 500)
	}
	last := chunks[len(chunks)-1]
	assert.Equal(t, 1350, last.WordStart)
	assert.Equal(t, 1400, last.WordEnd)
}

func TestWordChunker_ChunkIDs(t *testing.T) {
	c, err := NewWordChunker(4, 1)
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "nda", Content: "one two three four five six seven"})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "nda_chunk_0", chunks[0].ChunkID)
	assert.Equal(t, "one two three four", chunks[0].Text)
	assert.Equal(t, "nda_chunk_1", chunks[1].ChunkID)
	assert.Equal(t, "four five six seven", chunks[1].Text)
	assert.Equal(t, "seven", chunks[2].Text)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, "nda", ch.DocumentID)
	}
}

func TestWordChunker_CollapsesWhitespace(t *testing.T) {
	c, err := NewWordChunker(10, 2)
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "d", Content: "  alpha\n\tbeta   gamma \n"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0].Text)
}
