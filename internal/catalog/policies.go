package catalog

import (
	"context"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
)

// LoadPolicies reads every policy document; unreadable or blank ones are skipped.
func LoadPolicies(ctx context.Context, source Source, names []string, logger zerolog.Logger) []domain.PolicyDocument {
	logger = logger.With().Str("component", "policy_catalog").Logger()

	docs := make([]domain.PolicyDocument, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		data, err := source.Read(ctx, name)
		if err != nil {
			logger.Error().Err(err).Str("document", name).Msg("failed to read policy document, skipping")
			continue
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			logger.Warn().Str("document", name).Msg("policy document is empty, skipping")
			continue
		}
		docs = append(docs, domain.PolicyDocument{Name: name, Text: text})
	}
	return docs
}
