package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

const (
	DefaultProductTopN = 3

	nameBoost        = 1.5
	categoryBoost    = 1.3
	descriptionBoost = 1.2
	minTermRunes     = 3
)

// Words that never count as a lexical match on their own.
var stopwords = map[string]struct{}{
	"que": {}, "qual": {}, "quais": {}, "quanto": {}, "quanta": {}, "para": {}, "pra": {}, "com": {},
	"sem": {}, "por": {}, "uma": {}, "uns": {}, "umas": {}, "dos": {}, "das": {}, "nos": {}, "nas": {},
	"mais": {}, "menos": {}, "meu": {}, "minha": {}, "meus": {}, "minhas": {}, "seu": {}, "sua": {},
	"vocês": {}, "voces": {}, "você": {}, "voce": {}, "tem": {}, "têm": {}, "ter": {}, "tenho": {},
	"quero": {}, "queria": {}, "gostaria": {}, "preciso": {}, "procuro": {}, "algum": {}, "alguma": {},
	"alguns": {}, "algumas": {}, "sobre": {}, "como": {}, "onde": {}, "este": {}, "esta": {}, "esse": {},
	"essa": {}, "isso": {}, "muito": {}, "bom": {}, "boa": {}, "melhor": {}, "melhores": {}, "indica": {},
	"indicar": {}, "recomenda": {}, "recomendar": {}, "mostrar": {}, "mostre": {}, "vender": {},
	"vende": {}, "vendem": {}, "produto": {}, "produtos": {}, "presente": {}, "presentes": {},
	"the": {}, "and": {}, "for": {}, "with": {},
}

// CatalogReader exposes the immutable product catalog.
type CatalogReader interface {
	Products() []domain.Product
}

// ProductRetriever filters the catalog, then ranks the survivors by boosted similarity.
type ProductRetriever struct {
	catalog  CatalogReader
	searcher Searcher
	topN     int
}

func NewProductRetriever(catalog CatalogReader, searcher Searcher, topN int) *ProductRetriever {
	if topN <= 0 {
		topN = DefaultProductTopN
	}
	return &ProductRetriever{catalog: catalog, searcher: searcher, topN: topN}
}

type scoredProduct struct {
	product domain.Product
	score   float64
	lexical bool
}

// Search returns at most topN products accepted by filters. An empty filtered set returns
// immediately without querying the index.
func (r *ProductRetriever) Search(ctx context.Context, query string, filters domain.ProductFilters) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	all := r.catalog.Products()
	candidates := all
	if !filters.IsZero() {
		candidates = make([]domain.Product, 0, len(all))
		for _, p := range all {
			if filters.Accepts(p) {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) == 0 {
		return []domain.Product{}, nil
	}

	matches, err := r.searcher.Search(ctx, domain.CollectionProducts, query, len(all))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	similarity := make(map[string]float64, len(matches))
	for _, m := range matches {
		if _, seen := similarity[m.ID]; !seen {
			similarity[m.ID] = m.Score
		}
	}

	terms := queryTerms(query)
	scored := make([]scoredProduct, 0, len(candidates))
	anyLexical := false
	for _, p := range candidates {
		score, lexical := relevance(p, terms, similarity[p.ID.String()])
		anyLexical = anyLexical || lexical
		scored = append(scored, scoredProduct{product: p, score: score, lexical: lexical})
	}

	if anyLexical {
		gated := scored[:0]
		for _, s := range scored {
			if s.lexical {
				gated = append(gated, s)
			}
		}
		scored = gated
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}
	out := make([]domain.Product, len(scored))
	for i, s := range scored {
		out[i] = s.product
	}
	return out, nil
}

// relevance boosts a non-negative similarity by where query terms appear.
func relevance(p domain.Product, terms []string, similarity float64) (float64, bool) {
	if similarity < 0 {
		similarity = 0
	}
	score := similarity
	lexical := false
	if matchesAny(p.Name, terms) {
		score *= nameBoost
		lexical = true
	}
	if matchesAny(p.Category, terms) {
		score *= categoryBoost
		lexical = true
	}
	if matchesAny(p.Description, terms) {
		score *= descriptionBoost
		lexical = true
	}
	return score, lexical
}

// queryTerms lowercases, strips punctuation and drops stopwords and short tokens.
func queryTerms(query string) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, tok := range tokenize(query) {
		if utf8.RuneCountInString(tok) < minTermRunes {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// matchesAny reports whether a field word and a query term are equal or one is a
// prefix of the other, so "notebooks" matches "Notebook".
func matchesAny(field string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	for _, word := range tokenize(field) {
		if utf8.RuneCountInString(word) < minTermRunes {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		for _, term := range terms {
			if strings.HasPrefix(word, term) || strings.HasPrefix(term, word) {
				return true
			}
		}
	}
	return false
}
