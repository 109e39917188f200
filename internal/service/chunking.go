package service

import (
	"strings"
	"unicode/utf8"
)

// ChunkConfig sizes policy chunks in runes.
type ChunkConfig struct {
	MaxChars  int
	Overlap   int
	MaxChunks int
}

// DefaultChunkConfig provides 1000-character chunks with 200 characters of overlap.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxChars: 1000, Overlap: 200}
}

// Separators tried in order: paragraphs, lines, words, then single runes.
var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// ChunkText splits text on the coarsest separator that keeps pieces within
// MaxChars, recursing into finer separators for oversized pieces, and merges
// neighbouring pieces into chunks that share up to Overlap trailing runes.
func ChunkText(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.MaxChars {
		cfg.Overlap = cfg.MaxChars / 5
	}

	s := splitter{maxChars: cfg.MaxChars, overlap: cfg.Overlap}
	chunks := s.split(clean, chunkSeparators)
	if cfg.MaxChunks > 0 && len(chunks) > cfg.MaxChunks {
		chunks = chunks[:cfg.MaxChunks]
	}
	return chunks
}

type splitter struct {
	maxChars int
	overlap  int
}

func (s splitter) split(text string, separators []string) []string {
	sep, finer := pickSeparator(text, separators)

	var chunks, fitting []string
	for _, piece := range splitOn(text, sep) {
		if utf8.RuneCountInString(piece) <= s.maxChars {
			fitting = append(fitting, piece)
			continue
		}
		chunks = append(chunks, s.merge(fitting, sep)...)
		fitting = nil
		chunks = append(chunks, s.split(piece, finer)...)
	}
	return append(chunks, s.merge(fitting, sep)...)
}

// merge packs pieces into chunks of at most maxChars. After emitting a chunk it
// keeps the trailing pieces that fit in the overlap as the start of the next one.
func (s splitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var (
		chunks  []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if len(current) > 0 && total+sepLen+n > s.maxChars {
			if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(current) > 0 && (total > s.overlap || total+sepLen+n > s.maxChars) {
				total -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

func splitOn(text, sep string) []string {
	var parts []string
	if sep == "" {
		parts = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	for _, p := range strings.Split(text, sep) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
