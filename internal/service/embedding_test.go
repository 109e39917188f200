package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/vitrine/internal/cache"
	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachedEmbeddingClient_CachesByText(t *testing.T) {
	next := new(MockEmbeddingClient)
	ctx := context.Background()
	next.On("GenerateEmbedding", ctx, "notebook").Return([]float32{0.1, 0.2}, nil).Once()

	client := NewCachedEmbeddingClient(next, cache.NewLRU(10, time.Hour), "ada", time.Hour, zerolog.Nop())

	first, err := client.GenerateEmbedding(ctx, "notebook")
	require.NoError(t, err)
	second, err := client.GenerateEmbedding(ctx, "notebook")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2}, first)
	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "GenerateEmbedding", 1)
}

func TestCachedEmbeddingClient_DoesNotCacheErrors(t *testing.T) {
	next := new(MockEmbeddingClient)
	ctx := context.Background()
	next.On("GenerateEmbedding", ctx, "x").Return(nil, errors.New("down")).Once()
	next.On("GenerateEmbedding", ctx, "x").Return([]float32{1}, nil).Once()

	client := NewCachedEmbeddingClient(next, cache.NewLRU(10, 0), "ada", 0, zerolog.Nop())

	_, err := client.GenerateEmbedding(ctx, "x")
	assert.Error(t, err)

	got, err := client.GenerateEmbedding(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("unreachable") }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("unreachable")
}
func (failingCache) Close() error { return nil }

func TestCachedEmbeddingClient_CacheFailureFallsThrough(t *testing.T) {
	next := new(MockEmbeddingClient)
	next.On("GenerateEmbedding", mock.Anything, "x").Return([]float32{1, 2}, nil)

	client := NewCachedEmbeddingClient(next, failingCache{}, "ada", time.Minute, zerolog.Nop())

	got, err := client.GenerateEmbedding(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got)
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	a, err := e.GenerateEmbedding(ctx, "Notebook leve")
	require.NoError(t, err)
	b, err := e.GenerateEmbedding(ctx, "notebook LEVE!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	_, err = e.GenerateEmbedding(ctx, "  ")
	assert.Error(t, err)

	punct, err := e.GenerateEmbedding(ctx, "?!")
	require.NoError(t, err)
	assert.Len(t, punct, 64)
}

func TestVectorSearcher_Search(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	store := new(MockVectorStore)
	ctx := context.Background()
	embedder.On("GenerateEmbedding", ctx, "garantia").Return([]float32{1, 0}, nil)
	store.On("Search", ctx, domain.CollectionPolicies, []float32{1, 0}, 3).Return([]domain.VectorMatch{{ID: "p#0", Score: 0.9}}, nil)

	s := NewVectorSearcher(embedder, store)

	got, err := s.Search(ctx, domain.CollectionPolicies, "garantia", 3)
	require.NoError(t, err)
	assert.Equal(t, "p#0", got[0].ID)

	_, err = s.Search(ctx, domain.CollectionPolicies, " ", 3)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	none, err := s.Search(ctx, domain.CollectionPolicies, "garantia", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	store.AssertNumberOfCalls(t, "Search", 1)
}

func TestVectorSearcher_EmbeddingError(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("quota"))

	_, err := NewVectorSearcher(embedder, new(MockVectorStore)).Search(context.Background(), "c", "q", 1)

	assert.ErrorContains(t, err, "failed to embed query")
}

func TestIndexer_IndexProducts(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	store := new(MockVectorStore)
	products := sampleProducts()[:2]
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{1, 0}, nil)
	store.On("Replace", mock.Anything, domain.CollectionProducts, mock.MatchedBy(func(docs []domain.VectorDocument) bool {
		return len(docs) == 2 &&
			docs[0].ID == "1" && docs[0].Metadata["type"] == "product" && docs[0].Metadata["id"] == "1" &&
			docs[0].Content == products[0].IndexText()
	})).Return(nil)

	err := NewIndexer(embedder, store, DefaultChunkConfig(), zerolog.Nop()).IndexProducts(context.Background(), products)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestIndexer_IndexPolicies(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	store := new(MockVectorStore)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0, 1}, nil)
	store.On("Replace", mock.Anything, domain.CollectionPolicies, mock.Anything).Return(nil)

	chunks, err := NewIndexer(embedder, store, DefaultChunkConfig(), zerolog.Nop()).IndexPolicies(context.Background(), []domain.PolicyDocument{
		{Name: "politicas.md", Text: "Trocas em até 7 dias."},
		{Name: "frete.md", Text: "Frete grátis acima de R$ 200."},
	})

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "politicas.md#0", chunks[0].ID)
	assert.Equal(t, domain.PolicyChunkType, chunks[1].Type)
	assert.Equal(t, "frete.md", chunks[1].Source)

	docs := store.Calls[0].Arguments.Get(2).([]domain.VectorDocument)
	assert.Equal(t, "knowledge", docs[0].Metadata["type"])
	assert.Equal(t, "0", docs[0].Metadata["chunk_index"])
}

func TestIndexer_EmbeddingFailure(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("down"))
	store := new(MockVectorStore)

	err := NewIndexer(embedder, store, DefaultChunkConfig(), zerolog.Nop()).IndexProducts(context.Background(), sampleProducts())

	assert.Error(t, err)
	store.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}
