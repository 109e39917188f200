package catalog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
)

// OrderCatalog re-reads the order document on every lookup so external edits are
// visible immediately. Nothing is cached between calls.
type OrderCatalog struct {
	source Source
	name   string
	logger zerolog.Logger
}

func NewOrderCatalog(source Source, name string, logger zerolog.Logger) *OrderCatalog {
	return &OrderCatalog{
		source: source,
		name:   name,
		logger: logger.With().Str("component", "order_catalog").Str("document", name).Logger(),
	}
}

// Load returns the current snapshot. A missing or malformed document yields an empty set.
func (c *OrderCatalog) Load(ctx context.Context) []domain.Order {
	data, err := c.source.Read(ctx, c.name)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			c.logger.Warn().Msg("order document not found, treating as empty")
		} else {
			c.logger.Error().Err(err).Msg("failed to read order document, treating as empty")
		}
		return nil
	}

	records, err := decodeRecords(data)
	if err != nil {
		c.logger.Error().Err(err).Msg("malformed order document, treating as empty")
		return nil
	}

	orders := make([]domain.Order, 0, len(records))
	for i, raw := range records {
		var o domain.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			c.logger.Warn().Err(err).Int("index", i).Msg("skipping malformed order record")
			continue
		}
		orders = append(orders, o)
	}
	return orders
}

// FindByID scans the snapshot linearly and returns the first order whose trimmed
// identifier equals id.
func (c *OrderCatalog) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	for _, o := range c.Load(ctx) {
		if o.ID.Matches(id) {
			found := o
			return &found, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func decodeRecords(data []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
