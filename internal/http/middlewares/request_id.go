package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// WithRequestID propagates the client's X-Request-ID or generates one.
// The ID lands in the response header and in the context.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), rid)))
		})
	}
}
