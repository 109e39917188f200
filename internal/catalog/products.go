package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
)

// ProductCatalog is loaded once at startup and never mutated afterwards.
type ProductCatalog struct {
	products []domain.Product
	byID     map[string]int
}

// NewProductCatalog copies products; the first occurrence of a duplicated id wins.
func NewProductCatalog(products []domain.Product) *ProductCatalog {
	c := &ProductCatalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		if _, ok := c.byID[p.ID.String()]; !ok {
			c.byID[p.ID.String()] = i
		}
	}
	return c
}

// LoadProducts reads the product document. Failures degrade to an empty catalog.
func LoadProducts(ctx context.Context, source Source, name string, logger zerolog.Logger) *ProductCatalog {
	logger = logger.With().Str("component", "product_catalog").Str("document", name).Logger()

	data, err := source.Read(ctx, name)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read product document, catalog is empty")
		return NewProductCatalog(nil)
	}

	records, err := decodeRecords(data)
	if err != nil {
		logger.Error().Err(err).Msg("malformed product document, catalog is empty")
		return NewProductCatalog(nil)
	}

	products := make([]domain.Product, 0, len(records))
	for i, raw := range records {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping malformed product record")
			continue
		}
		if p.ID.String() == "" || strings.TrimSpace(p.Name) == "" || p.Price < 0 {
			logger.Warn().Int("index", i).Msg("skipping invalid product record")
			continue
		}
		products = append(products, p)
	}

	logger.Info().Int("count", len(products)).Msg("product catalog loaded")
	return NewProductCatalog(products)
}

// Products returns a copy of the catalog in document order.
func (c *ProductCatalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *ProductCatalog) Get(id string) (domain.Product, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *ProductCatalog) Len() int {
	return len(c.products)
}
