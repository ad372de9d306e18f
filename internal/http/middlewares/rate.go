package middlewares

import (
	"net/http"
	"strconv"

	httperrors "github.com/cotato/auth-service/internal/http/errors"
	"github.com/cotato/auth-service/internal/observability/logger"
	"github.com/cotato/auth-service/internal/rate"
)

// WithRateLimit gates a route on a per-client-IP fixed window. A limiter
// backend failure lets the request through: availability beats strict
// limiting here.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable",
					logger.Op("WithRateLimit"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				retry := int(res.RetryAfter.Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				httperrors.WriteError(w, httperrors.ErrTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
