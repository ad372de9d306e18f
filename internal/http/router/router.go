// Package router assembles the HTTP routes and middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cotato/auth-service/internal/auth"
	authctrl "github.com/cotato/auth-service/internal/http/controllers/auth"
	healthctrl "github.com/cotato/auth-service/internal/http/controllers/health"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	mw "github.com/cotato/auth-service/internal/http/middlewares"
	"github.com/cotato/auth-service/internal/rate"
)

// Deps contains everything the router wires together.
type Deps struct {
	Service            auth.Service
	AuthControllers    *authctrl.Controllers
	HealthController   *healthctrl.Controller
	MetricsHandler     http.Handler // nil disables /metrics
	CORSAllowedOrigins []string

	// Per-endpoint limiters; nil disables limiting for that route.
	LoginLimiter   rate.Limiter
	RefreshLimiter rate.Limiter
}

// New builds the service handler. The outer middleware order is
// request-id, logging, recover, security headers, CORS; token-bearing
// routes additionally get no-store.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
	)
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(mw.WithCORS(deps.CORSAllowedOrigins))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	ac := deps.AuthControllers

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.With(mw.WithMetrics("/api/auth/{provider}/callback"), mw.WithRateLimit(deps.LoginLimiter)).
			Post("/{provider}/callback", ac.Login.Callback)
		r.With(mw.WithMetrics("/api/auth/refresh"), mw.WithRateLimit(deps.RefreshLimiter)).
			Post("/refresh", ac.Refresh.Refresh)
		r.With(mw.WithMetrics("/api/auth/logout")).
			Post("/logout", ac.Logout.Logout)
		r.With(mw.WithMetrics("/api/auth/validate")).
			Get("/validate", ac.Validate.Validate)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(mw.WithNoStore(), mw.RequireAuth(deps.Service))

		r.With(mw.WithMetrics("/api/users/me")).
			Get("/me", ac.Me.Me)
	})

	if deps.HealthController != nil {
		r.Get("/healthz", deps.HealthController.Health)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	return r
}
