package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

const DefaultPolicyTopK = 3

// PolicyRetriever returns the policy passages closest to a query.
type PolicyRetriever struct {
	searcher Searcher
	topK     int
}

func NewPolicyRetriever(searcher Searcher, topK int) *PolicyRetriever {
	if topK <= 0 {
		topK = DefaultPolicyTopK
	}
	return &PolicyRetriever{searcher: searcher, topK: topK}
}

// Query passes the query to the index unchanged and returns passage texts, best first.
func (r *PolicyRetriever) Query(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	matches, err := r.searcher.Search(ctx, domain.CollectionPolicies, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}

	passages := make([]string, 0, len(matches))
	for _, m := range matches {
		passages = append(passages, m.Content)
	}
	return passages, nil
}
