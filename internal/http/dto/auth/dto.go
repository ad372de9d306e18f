// Package auth contains the request/response shapes for the auth
// endpoints.
package auth

import "time"

// CallbackRequest carries the front-channel values the SPA received from
// the provider redirect. State is only meaningful for Naver.
type CallbackRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
	State       string `json:"state,omitempty"`
}

// TokenResponse is the token pair returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime, seconds
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest optionally carries the refresh token to revoke alongside
// the access token from the Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// IntrospectResponse reports the outcome of a token check.
type IntrospectResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// MeResponse is the authenticated user's profile.
type MeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}
