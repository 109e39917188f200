package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// VectorStore persists embedded documents per collection and answers nearest-neighbour queries.
type VectorStore interface {
	Replace(ctx context.Context, collection string, docs []domain.VectorDocument) error
	Search(ctx context.Context, collection string, embedding []float32, k int) ([]domain.VectorMatch, error)
	Count(ctx context.Context, collection string) (int, error)
}

// Searcher returns the k documents of a collection most similar to a text query.
type Searcher interface {
	Search(ctx context.Context, collection, query string, k int) ([]domain.VectorMatch, error)
}

// VectorSearcher embeds the query and delegates ranking to a VectorStore.
type VectorSearcher struct {
	embedding EmbeddingClient
	store     VectorStore
}

func NewVectorSearcher(embedding EmbeddingClient, store VectorStore) *VectorSearcher {
	return &VectorSearcher{embedding: embedding, store: store}
}

func (s *VectorSearcher) Search(ctx context.Context, collection, query string, k int) ([]domain.VectorMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		return []domain.VectorMatch{}, nil
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.store.Search(ctx, collection, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", collection, err)
	}
	return matches, nil
}
