package middlewares

import (
	"net/http"
	"strings"

	"github.com/cotato/auth-service/internal/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	"github.com/cotato/auth-service/internal/observability/logger"
)

// BearerToken extracts the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth gates a route on a live access token. The full check runs
// through the service (signature, expiry, access type, revocation, user
// existence) and the resolved user lands in the context. Every failure
// mode maps to the same 401 body.
func RequireAuth(svc auth.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			user, err := svc.CurrentUser(r.Context(), tokenStr)
			if err != nil {
				logger.From(r.Context()).Debug("rejected bearer token",
					logger.Op("RequireAuth"), logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(setUser(r.Context(), user)))
		})
	}
}
