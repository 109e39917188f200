package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/cloo-solutions/vitrine/internal/metrics"
	"github.com/cloo-solutions/vitrine/internal/telemetry"
	"github.com/rs/zerolog"
)

// ApologyMessage is the only reply a customer sees when anything inside the pipeline fails.
const ApologyMessage = "Desculpe, tive um problema ao processar sua mensagem. Por favor, tente novamente em alguns instantes."

// ProductSearcher ranks catalog products for a query.
type ProductSearcher interface {
	Search(ctx context.Context, query string, filters domain.ProductFilters) ([]domain.Product, error)
}

// PolicySearcher returns policy passages for a query.
type PolicySearcher interface {
	Query(ctx context.Context, query string) ([]string, error)
}

// OrderResolver answers order-status messages.
type OrderResolver interface {
	Lookup(ctx context.Context, message string) (string, error)
}

// AnswerComposer generates the final reply for the retrieval paths.
type AnswerComposer interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

// AssistantConfig wires the router's collaborators.
type AssistantConfig struct {
	Orders           OrderResolver
	Products         ProductSearcher
	Policies         PolicySearcher
	Composer         AnswerComposer
	Transcript       *TranscriptStore
	Metrics          *metrics.Metrics
	RetrievalTimeout time.Duration
	Logger           zerolog.Logger
}

// Assistant classifies each message, dispatches it and records the exchange.
type Assistant struct {
	orders           OrderResolver
	products         ProductSearcher
	policies         PolicySearcher
	composer         AnswerComposer
	transcript       *TranscriptStore
	metrics          *metrics.Metrics
	retrievalTimeout time.Duration
	logger           zerolog.Logger
}

func NewAssistant(cfg AssistantConfig) *Assistant {
	transcript := cfg.Transcript
	if transcript == nil {
		transcript = NewTranscriptStore()
	}
	return &Assistant{
		orders:           cfg.Orders,
		products:         cfg.Products,
		policies:         cfg.Policies,
		composer:         cfg.Composer,
		transcript:       transcript,
		metrics:          cfg.Metrics,
		retrievalTimeout: cfg.RetrievalTimeout,
		logger:           cfg.Logger.With().Str("component", "assistant").Logger(),
	}
}

// ProcessMessage always returns a reply. Failures and panics become ApologyMessage
// and are logged; only successful replies are appended to the transcript.
// The caller-supplied context map is accepted and currently unused.
func (a *Assistant) ProcessMessage(ctx context.Context, message string, _ map[string]any) (reply string) {
	intent := domain.ClassifyIntent(message)
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "assistant.process_message", telemetry.SpanAttributes{
		Intent:    intent.String(),
		Operation: "process_message",
	})
	defer span.End()

	log := a.logger.With().Str("intent", intent.String()).Logger()
	log.Debug().Str("message", message).Msg("message classified")
	a.metrics.IncMessage(intent.String())

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while processing message: %v", r)
			a.fail(span, log, intent, err)
			reply = ApologyMessage
		}
	}()

	answer, err := a.dispatch(ctx, intent, message)
	a.metrics.ObserveStage("total", start)
	if err != nil {
		a.fail(span, log, intent, err)
		return ApologyMessage
	}

	a.transcript.Append(message, answer)
	log.Info().Dur("elapsed", time.Since(start)).Msg("message answered")
	return answer
}

func (a *Assistant) dispatch(ctx context.Context, intent domain.Intent, message string) (string, error) {
	switch intent {
	case domain.IntentExchangeDeadline:
		return domain.ExchangeDeadlineAnswer, nil

	case domain.IntentOrderStatus:
		defer a.metrics.ObserveStage("order_lookup", time.Now())
		return a.orders.Lookup(ctx, message)

	case domain.IntentProduct:
		var filters domain.ProductFilters
		if category, ok := domain.ExtractCategory(message); ok {
			filters.Category = category
		}
		products, err := a.searchProducts(ctx, message, filters)
		if err != nil {
			return "", err
		}
		answer, err := a.compose(ctx, ComposeRequest{Intent: intent, Message: message, Products: products})
		if err == nil && answer == NoRelevantProductsAnswer {
			a.metrics.IncGroundingFallback()
		}
		return answer, err

	case domain.IntentPolicy:
		passages, err := a.queryPolicies(ctx, message)
		if err != nil {
			return "", err
		}
		return a.compose(ctx, ComposeRequest{Intent: intent, Message: message, Policies: passages})

	default:
		return a.compose(ctx, ComposeRequest{Intent: domain.IntentFallback, Message: message})
	}
}

func (a *Assistant) searchProducts(ctx context.Context, message string, filters domain.ProductFilters) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "assistant.retrieve", telemetry.SpanAttributes{Collection: domain.CollectionProducts})
	defer span.End()
	defer a.metrics.ObserveStage("product_retrieval", time.Now())

	ctx, cancel := a.withRetrievalTimeout(ctx)
	defer cancel()

	products, err := a.products.Search(ctx, message, filters)
	if err != nil {
		return nil, err
	}
	span.SetData("results", len(products))
	a.metrics.ObserveResults(domain.CollectionProducts, len(products))
	return products, nil
}

func (a *Assistant) queryPolicies(ctx context.Context, message string) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "assistant.retrieve", telemetry.SpanAttributes{Collection: domain.CollectionPolicies})
	defer span.End()
	defer a.metrics.ObserveStage("policy_retrieval", time.Now())

	ctx, cancel := a.withRetrievalTimeout(ctx)
	defer cancel()

	passages, err := a.policies.Query(ctx, message)
	if err != nil {
		return nil, err
	}
	span.SetData("results", len(passages))
	a.metrics.ObserveResults(domain.CollectionPolicies, len(passages))
	return passages, nil
}

func (a *Assistant) compose(ctx context.Context, req ComposeRequest) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "assistant.generate", telemetry.SpanAttributes{Intent: req.Intent.String()})
	defer span.End()
	defer a.metrics.ObserveStage("generation", time.Now())

	return a.composer.Compose(ctx, req)
}

func (a *Assistant) withRetrievalTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.retrievalTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.retrievalTimeout)
}

func (a *Assistant) fail(span *telemetry.Span, log zerolog.Logger, intent domain.Intent, err error) {
	a.metrics.IncFailure(intent.String())
	span.SetError(err)
	log.Error().Err(err).Msg("failed to process message")
}

// History returns the transcript in append order.
func (a *Assistant) History() []domain.TranscriptEntry {
	return a.transcript.List()
}

func (a *Assistant) ClearHistory() {
	n := a.transcript.Clear()
	a.logger.Info().Int("entries", n).Msg("chat history cleared")
}
