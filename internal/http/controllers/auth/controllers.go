// Package auth contains the HTTP controllers for the auth endpoints.
package auth

import (
	"time"

	"github.com/cotato/auth-service/internal/auth"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodySize     = 8 * 1024 // 8KB
)

// Controllers aggregates the auth controllers for router wiring.
type Controllers struct {
	Login    *LoginController
	Refresh  *RefreshController
	Logout   *LogoutController
	Validate *ValidateController
	Me       *MeController
}

// NewControllers builds the full set over one service instance.
// accessTTL feeds the expiresIn field of token responses.
func NewControllers(svc auth.Service, accessTTL time.Duration) *Controllers {
	return &Controllers{
		Login:    NewLoginController(svc, accessTTL),
		Refresh:  NewRefreshController(svc, accessTTL),
		Logout:   NewLogoutController(svc),
		Validate: NewValidateController(svc),
		Me:       NewMeController(),
	}
}
