package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
)

var spanStatusByCode = map[int]sentry.SpanStatus{
	http.StatusBadRequest:            sentry.SpanStatusInvalidArgument,
	http.StatusNotFound:              sentry.SpanStatusNotFound,
	http.StatusMethodNotAllowed:      sentry.SpanStatusUnimplemented,
	http.StatusRequestEntityTooLarge: sentry.SpanStatusResourceExhausted,
	http.StatusUnsupportedMediaType:  sentry.SpanStatusInvalidArgument,
	http.StatusServiceUnavailable:    sentry.SpanStatusUnavailable,
	http.StatusGatewayTimeout:        sentry.SpanStatusDeadlineExceeded,
}

// Tracing opens one Sentry transaction per request, continuing an incoming
// sentry-trace header when present. The transaction is renamed to the matched
// route once the handler returns. Panics are reported and re-raised for Recover.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		opts := []sentry.SpanOption{
			sentry.WithOpName("http.server"),
			sentry.WithTransactionSource(sentry.SourceURL),
			sentry.ContinueFromRequest(r),
		}
		tx := sentry.StartTransaction(r.Context(), r.Method+" "+r.URL.Path, opts...)
		defer tx.Finish()

		r = r.WithContext(sentry.SetHubOnContext(tx.Context(), hub))
		hub.Scope().SetRequest(r)
		if id := GetRequestID(r.Context()); id != "" {
			hub.Scope().SetTag("request_id", id)
			tx.SetTag("request_id", id)
		}

		defer func() {
			if v := recover(); v != nil {
				tx.Status = sentry.SpanStatusInternalError
				hub.RecoverWithContext(r.Context(), v)
				panic(v)
			}
		}()

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if route := routePattern(r); route != "" {
			tx.Name = r.Method + " " + route
			tx.Source = sentry.SourceRoute
		}
		status := rec.statusCode()
		tx.Status = spanStatus(status)
		tx.SetData("http.response.status_code", status)
		if status >= http.StatusInternalServerError {
			hub.CaptureMessage(tx.Name + ": " + http.StatusText(status))
		}
	})
}

func spanStatus(code int) sentry.SpanStatus {
	if s, ok := spanStatusByCode[code]; ok {
		return s
	}
	switch {
	case code < http.StatusBadRequest:
		return sentry.SpanStatusOK
	case code < http.StatusInternalServerError:
		return sentry.SpanStatusInvalidArgument
	default:
		return sentry.SpanStatusInternalError
	}
}

// routePattern returns the chi pattern that matched r, or "" before routing.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
