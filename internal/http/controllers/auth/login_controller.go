package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	svc "github.com/cotato/auth-service/internal/auth"
	dto "github.com/cotato/auth-service/internal/http/dto/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/profile"
	"github.com/cotato/auth-service/internal/observability/logger"
)

// LoginController handles POST /api/auth/{provider}/callback.
type LoginController struct {
	service   svc.Service
	accessTTL time.Duration
}

// NewLoginController creates the login callback controller.
func NewLoginController(service svc.Service, accessTTL time.Duration) *LoginController {
	return &LoginController{service: service, accessTTL: accessTTL}
}

// Callback exchanges the provider authorization code for a local token
// pair. The provider name comes from the URL, the code and redirect URI
// from the JSON body.
func (c *LoginController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Callback"))

	provider, err := oauth.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("unknown provider"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code is required"))
		return
	}

	pair, err := c.service.Login(ctx, provider, svc.LoginInput{
		Code:        req.Code,
		RedirectURI: req.RedirectURI,
		State:       req.State,
	})
	if err != nil {
		log.Debug("login failed", logger.Provider(provider.String()), logger.Err(err))
		writeLoginError(w, err)
		return
	}

	writeTokenPair(w, pair, c.accessTTL)
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrUnsupportedProvider):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("unknown provider"))

	case oauth.IsProviderError(err):
		httperrors.WriteError(w, httperrors.ErrBadGateway)

	case errors.Is(err, profile.ErrMalformed):
		httperrors.WriteError(w, httperrors.ErrBadGateway.WithDetail("unexpected provider response"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

func writeTokenPair(w http.ResponseWriter, pair *svc.TokenPair, accessTTL time.Duration) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
	})
}
