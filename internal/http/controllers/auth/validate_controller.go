package auth

import (
	"encoding/json"
	"net/http"

	svc "github.com/cotato/auth-service/internal/auth"
	dto "github.com/cotato/auth-service/internal/http/dto/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	mw "github.com/cotato/auth-service/internal/http/middlewares"
)

// ValidateController handles GET /api/auth/validate.
type ValidateController struct {
	service svc.Service
}

// NewValidateController creates the introspection controller.
func NewValidateController(service svc.Service) *ValidateController {
	return &ValidateController{service: service}
}

// Validate reports whether the bearer token passes the signature and
// expiry check. An invalid token is a 200 with valid=false, not a 401:
// the caller asked a question and got an answer.
func (c *ValidateController) Validate(w http.ResponseWriter, r *http.Request) {
	tokenStr := mw.BearerToken(r)
	if tokenStr == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("bearer token is required"))
		return
	}

	res, err := c.service.Introspect(r.Context(), tokenStr)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.IntrospectResponse{
		Valid:  res.Valid,
		UserID: res.UserID,
		Email:  res.Email,
	})
}
