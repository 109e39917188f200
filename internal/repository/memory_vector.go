package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// MemoryVectorStore keeps collections in process and ranks by cosine similarity.
type MemoryVectorStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.VectorDocument
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{collections: make(map[string][]domain.VectorDocument)}
}

// Replace swaps the whole collection atomically.
func (s *MemoryVectorStore) Replace(ctx context.Context, collection string, docs []domain.VectorDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dims := -1
	stored := make([]domain.VectorDocument, len(docs))
	for i, d := range docs {
		if dims >= 0 && len(d.Embedding) != dims {
			return fmt.Errorf("document %s has %d dimensions, expected %d", d.ID, len(d.Embedding), dims)
		}
		dims = len(d.Embedding)
		d.Embedding = append([]float32(nil), d.Embedding...)
		stored[i] = d
	}

	s.mu.Lock()
	s.collections[collection] = stored
	s.mu.Unlock()
	return nil
}

// Search returns the k most similar documents. Ties keep insertion order.
func (s *MemoryVectorStore) Search(ctx context.Context, collection string, embedding []float32, k int) ([]domain.VectorMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	docs := s.collections[collection]
	s.mu.RUnlock()

	if k <= 0 || len(docs) == 0 {
		return []domain.VectorMatch{}, nil
	}

	matches := make([]domain.VectorMatch, 0, len(docs))
	for _, d := range docs {
		matches = append(matches, domain.VectorMatch{
			ID:       d.ID,
			Content:  d.Content,
			Metadata: d.Metadata,
			Score:    cosineSimilarity(embedding, d.Embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *MemoryVectorStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
