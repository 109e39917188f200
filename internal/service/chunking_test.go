package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_Empty(t *testing.T) {
	assert.Nil(t, ChunkText("   \n", DefaultChunkConfig()))
}

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	chunks := ChunkText("  Trocas em até 7 dias.  ", DefaultChunkConfig())

	assert.Equal(t, []string{"Trocas em até 7 dias."}, chunks)
}

func TestChunkText_WindowsAndOverlap(t *testing.T) {
	words := make([]string, 0, 600)
	for i := 0; i < 600; i++ {
		words = append(words, "política")
	}
	text := strings.Join(words, " ")

	cfg := DefaultChunkConfig()
	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), cfg.MaxChars)
	}

	total := 0
	for _, c := range chunks {
		total += utf8.RuneCountInString(c)
	}
	assert.Greater(t, total, utf8.RuneCountInString(text), "overlap repeats text across chunks")
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "política"))
}

func TestChunkText_MaxChunks(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 100)

	chunks := ChunkText(text, ChunkConfig{MaxChars: 100, Overlap: 10, MaxChunks: 2})

	assert.Len(t, chunks, 2)
}

func TestChunkText_InvalidConfigFallsBack(t *testing.T) {
	text := strings.Repeat("a", 1500)

	chunks := ChunkText(text, ChunkConfig{})

	require.Len(t, chunks, 2)
	assert.Equal(t, 1000, utf8.RuneCountInString(chunks[0]))
}

func TestChunkText_PrefersParagraphBoundaries(t *testing.T) {
	first := strings.Repeat("troca ", 12)
	second := strings.Repeat("garantia ", 8)
	text := first + "\n\n" + second

	chunks := ChunkText(text, ChunkConfig{MaxChars: 80, Overlap: 0})

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.TrimSpace(first), chunks[0])
	assert.Equal(t, strings.TrimSpace(second), chunks[1])
}

func TestChunkText_SplitsOversizedParagraphByWords(t *testing.T) {
	long := strings.Repeat("pagamento ", 30)
	text := "Pix.\n\n" + long

	chunks := ChunkText(text, ChunkConfig{MaxChars: 50, Overlap: 10})

	require.Greater(t, len(chunks), 2)
	assert.Equal(t, "Pix.", chunks[0])
	for _, c := range chunks[1:] {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 50)
		assert.False(t, strings.HasPrefix(c, "agamento"), "words are never cut")
	}
}
