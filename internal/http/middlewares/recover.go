package middlewares

import (
	"net/http"

	httperrors "github.com/cotato/auth-service/internal/http/errors"
	"github.com/cotato/auth-service/internal/observability/logger"
	"go.uber.org/zap"
)

// WithRecover turns panics into a 500 instead of killing the process.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Op("recover"),
						zap.Any("panic", rec),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
