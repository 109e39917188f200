package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// AccessLog binds a request-scoped logger, tagged with the request id, to the
// request context and emits one event per request once the handler returns.
// Handlers reach the scoped logger through hlog.FromRequest.
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	withID := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := GetRequestID(r.Context()); id != "" {
				l := zerolog.Ctx(r.Context())
				l.UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("request_id", id)
				})
			}
			next.ServeHTTP(w, r)
		})
	}

	access := hlog.AccessHandler(func(r *http.Request, status, size int, elapsed time.Duration) {
		if status == 0 {
			status = http.StatusOK
		}
		l := hlog.FromRequest(r)
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = l.Error()
		case status >= http.StatusBadRequest:
			event = l.Warn()
		default:
			event = l.Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", size).
			Int64("duration_ms", elapsed.Milliseconds()).
			Str("remote_addr", clientIP(r)).
			Str("user_agent", r.UserAgent()).
			Msg("http request")
	})

	return func(next http.Handler) http.Handler {
		return hlog.NewHandler(logger)(withID(access(next)))
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
