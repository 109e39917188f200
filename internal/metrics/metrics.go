// Package metrics exposes Prometheus collectors for the chat pipeline and HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vitrine"

// Metrics owns a private registry. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	messages        *prometheus.CounterVec
	failures        *prometheus.CounterVec
	stageLatency    *prometheus.HistogramVec
	retrieverResult *prometheus.HistogramVec
	groundingDrops  prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Chat messages processed, by classified intent",
		}, []string{"intent"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_failures_total",
			Help:      "Chat messages answered with the apology, by intent",
		}, []string{"intent"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Latency of pipeline stages",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		retrieverResult: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retriever_results",
			Help:      "Number of results returned by a retriever",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}, []string{"retriever"}),
		groundingDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grounding_fallbacks_total",
			Help:      "Product answers replaced because no line named a presented product",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.messages, m.failures, m.stageLatency, m.retrieverResult,
		m.groundingDrops, m.httpRequests, m.httpLatency,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterIntents creates the per-intent counters at zero so every intent is
// exported before its first message.
func (m *Metrics) RegisterIntents(intents []string) {
	if m == nil {
		return
	}
	for _, intent := range intents {
		m.messages.WithLabelValues(intent)
		m.failures.WithLabelValues(intent)
	}
}

func (m *Metrics) IncMessage(intent string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(intent).Inc()
}

func (m *Metrics) IncFailure(intent string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(intent).Inc()
}

// ObserveStage records the time elapsed since start for a pipeline stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveResults(retriever string, n int) {
	if m == nil {
		return
	}
	m.retrieverResult.WithLabelValues(retriever).Observe(float64(n))
}

func (m *Metrics) IncGroundingFallback() {
	if m == nil {
		return
	}
	m.groundingDrops.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
