package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	svc "github.com/cotato/auth-service/internal/auth"
	dto "github.com/cotato/auth-service/internal/http/dto/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	"github.com/cotato/auth-service/internal/observability/logger"
	"github.com/cotato/auth-service/internal/token"
)

// RefreshController handles POST /api/auth/refresh.
type RefreshController struct {
	service   svc.Service
	accessTTL time.Duration
}

// NewRefreshController creates the refresh controller.
func NewRefreshController(service svc.Service, accessTTL time.Duration) *RefreshController {
	return &RefreshController{service: service, accessTTL: accessTTL}
}

// Refresh rotates a refresh token into a fresh pair. Any reason the
// token is unusable (revoked, expired, wrong type, unknown subject)
// comes back as the same 401.
func (c *RefreshController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RefreshController.Refresh"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("refreshToken is required"))
		return
	}

	pair, err := c.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		log.Debug("refresh failed", logger.Err(err))
		writeRefreshError(w, err)
		return
	}

	writeTokenPair(w, pair, c.accessTTL)
}

func writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrTokenRevoked),
		errors.Is(err, svc.ErrNotRefreshToken),
		errors.Is(err, svc.ErrUserGone),
		errors.Is(err, token.ErrExpired),
		errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrUnsupported),
		errors.Is(err, token.ErrInvalid):
		// One body for every rejection: callers must not learn whether
		// a token was revoked, expired, or never valid.
		httperrors.WriteError(w, httperrors.ErrUnauthorized)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
