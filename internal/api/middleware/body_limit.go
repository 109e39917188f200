package middleware

import (
	"mime"
	"net/http"

	"github.com/cloo-solutions/vitrine/internal/api"
)

// LimitJSONBody caps request bodies at limit bytes on methods that carry one
// and rejects declared content types other than JSON. Requests without a
// Content-Type header are passed through.
func LimitJSONBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r.Method) || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if ct := r.Header.Get("Content-Type"); ct != "" {
				mediaType, _, err := mime.ParseMediaType(ct)
				if err != nil || mediaType != "application/json" {
					api.Error(w, http.StatusUnsupportedMediaType, "content type must be application/json")
					return
				}
			}

			if limit > 0 {
				if r.ContentLength > limit {
					api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
