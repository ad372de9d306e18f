package auth

import (
	"encoding/json"
	"io"
	"net/http"

	svc "github.com/cotato/auth-service/internal/auth"
	dto "github.com/cotato/auth-service/internal/http/dto/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	mw "github.com/cotato/auth-service/internal/http/middlewares"
	"github.com/cotato/auth-service/internal/observability/logger"
)

// LogoutController handles POST /api/auth/logout.
type LogoutController struct {
	service svc.Service
}

// NewLogoutController creates the logout controller.
func NewLogoutController(service svc.Service) *LogoutController {
	return &LogoutController{service: service}
}

// Logout revokes the bearer access token and, when the body carries one,
// the refresh token. Both revocations are best effort; the endpoint only
// fails when no bearer token is presented at all.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	accessToken := mw.BearerToken(r)
	if accessToken == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	// Empty body is fine; only a present-but-broken one is rejected.
	var req dto.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.Logout(ctx, accessToken, req.RefreshToken); err != nil {
		log.Warn("logout failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
