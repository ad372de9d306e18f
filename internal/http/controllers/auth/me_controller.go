package auth

import (
	"encoding/json"
	"net/http"

	dto "github.com/cotato/auth-service/internal/http/dto/auth"
	httperrors "github.com/cotato/auth-service/internal/http/errors"
	mw "github.com/cotato/auth-service/internal/http/middlewares"
)

// MeController handles GET /api/users/me.
type MeController struct{}

// NewMeController creates the me controller.
func NewMeController() *MeController {
	return &MeController{}
}

// Me returns the authenticated user's profile. RequireAuth already
// resolved the user into the context.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUser(r.Context())
	if user == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.MeResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt,
	})
}
