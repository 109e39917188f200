package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/cloo-solutions/vitrine/internal/cache"
	"github.com/rs/zerolog"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbeddingClient memoizes embeddings by model and text digest. Cache failures
// are logged and never fail the call.
type CachedEmbeddingClient struct {
	next      EmbeddingClient
	cache     cache.Client
	namespace string
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewCachedEmbeddingClient(next EmbeddingClient, c cache.Client, namespace string, ttl time.Duration, logger zerolog.Logger) *CachedEmbeddingClient {
	return &CachedEmbeddingClient{
		next:      next,
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger.With().Str("component", "embedding_cache").Logger(),
	}
}

func (c *CachedEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var embedding []float32
		if jsonErr := json.Unmarshal(raw, &embedding); jsonErr == nil {
			return embedding, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cached embedding")
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn().Err(err).Msg("embedding cache read failed")
	}

	embedding, err := c.next.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(embedding); err == nil {
		if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
			c.logger.Warn().Err(err).Msg("embedding cache write failed")
		}
	}
	return embedding, nil
}

func (c *CachedEmbeddingClient) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.namespace + ":" + hex.EncodeToString(sum[:])
}

// DefaultHashingDimensions is the vector size of the offline embedder.
const DefaultHashingDimensions = 256

// HashingEmbedder maps lowercased word tokens and their character trigrams into a fixed
// number of buckets and L2-normalizes the result. It needs no network access.
type HashingEmbedder struct {
	dimensions int
}

func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultHashingDimensions
	}
	return &HashingEmbedder{dimensions: dimensions}
}

func (h *HashingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text cannot be empty")
	}

	vec := make([]float64, h.dimensions)
	for _, token := range tokenize(text) {
		vec[h.bucket(token)] += 1
		runes := []rune(token)
		for i := 0; i+3 <= len(runes); i++ {
			vec[h.bucket("#"+string(runes[i:i+3]))] += 0.5
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, h.dimensions)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (h *HashingEmbedder) bucket(s string) int {
	f := fnv.New32a()
	_, _ = f.Write([]byte(s))
	return int(f.Sum32() % uint32(h.dimensions))
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
