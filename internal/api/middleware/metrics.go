package middleware

import (
	"net/http"
	"time"

	"github.com/cloo-solutions/vitrine/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched chi route pattern.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(r.Method, route, rec.statusCode(), time.Since(start))
		})
	}
}
