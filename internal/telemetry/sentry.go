// Package telemetry wires zerolog and Sentry for the vitrine binaries.
package telemetry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

const flushTimeout = 5 * time.Second

// Routes polled by health checkers and scrapers; never traced.
var untracedTransactions = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	Debug            bool
}

// Init configures the global Sentry client. An empty DSN, or a DSN Sentry
// rejects, leaves tracing off and returns a shutdown that does nothing.
func Init(cfg Config, logger zerolog.Logger) (func(), error) {
	if cfg.DSN == "" {
		logger.Debug().Msg("sentry: no DSN configured, tracing disabled")
		return func() {}, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.TracesSampleRate <= 0 || cfg.TracesSampleRate > 1 {
		cfg.TracesSampleRate = 1.0
	}

	rate := cfg.TracesSampleRate
	err := sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.DSN,
		Environment:   cfg.Environment,
		Release:       cfg.Release,
		ServerName:    serviceName,
		Debug:         cfg.Debug,
		EnableTracing: true,
		TracesSampler: func(sc sentry.SamplingContext) float64 {
			var parent sentry.SpanID
			return sampleRate(sc.Span.Name, sc.Span.ParentSpanID != parent, sc.Span.Sampled.Bool(), rate)
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("sentry: failed to initialize, continuing without tracing")
		return func() {}, nil
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Float64("sample_rate", rate).
		Msg("sentry: tracing initialized")
	return func() { sentry.Flush(flushTimeout) }, nil
}

// sampleRate keeps child spans on their parent's decision and drops health and scrape traffic.
func sampleRate(name string, hasParent, parentSampled bool, rate float64) float64 {
	if untracedTransactions[name] {
		return 0
	}
	if hasParent {
		if parentSampled {
			return 1
		}
		return 0
	}
	return rate
}

// SpanAttributes tag a pipeline span. Empty fields are not recorded.
type SpanAttributes struct {
	Intent     string
	Collection string
	RequestID  string
	Operation  string
}

func (a SpanAttributes) apply(span *sentry.Span) {
	tags := map[string]string{
		"intent":     a.Intent,
		"collection": a.Collection,
		"request_id": a.RequestID,
	}
	for k, v := range tags {
		if v != "" {
			span.SetTag(k, v)
		}
	}
	if a.Operation != "" {
		span.SetData("operation", a.Operation)
	}
}

// Span is a nil-safe handle over a Sentry span.
type Span struct {
	inner *sentry.Span
}

func (s *Span) End() {
	if s != nil && s.inner != nil {
		s.inner.Finish()
	}
}

// SetData records a value on the span, such as a result count.
func (s *Span) SetData(key string, value interface{}) {
	if s != nil && s.inner != nil {
		s.inner.SetData(key, value)
	}
}

// SetError marks the span failed and reports err on the span's hub.
func (s *Span) SetError(err error) {
	if s == nil || s.inner == nil || err == nil {
		return
	}
	s.inner.Status = sentry.SpanStatusInternalError
	CaptureError(s.inner.Context(), err)
}

// StartSpan opens a child of the span already in ctx, or a new transaction
// when there is none. The returned context carries the new span.
func StartSpan(ctx context.Context, name string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(name)
	} else {
		span = sentry.StartSpan(ctx, name, sentry.WithTransactionName(name))
	}
	attrs.apply(span)
	return span.Context(), &Span{inner: span}
}

// CaptureError reports err on the hub bound to ctx, falling back to the current hub.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
