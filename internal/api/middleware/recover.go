package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/cloo-solutions/vitrine/internal/api"
	"github.com/rs/zerolog"
)

// Recover turns a handler panic into the generic 500 body.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error().
						Interface("panic", rec).
						Str("request_id", GetRequestID(r.Context())).
						Str("stack", string(debug.Stack())).
						Msg("handler panic")
					api.Error(w, http.StatusInternalServerError, api.InternalErrorMessage)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
