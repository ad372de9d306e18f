// Package oauth defines the multi-provider code-exchange contract.
//
// Each identity provider (Google, Naver, Kakao) implements Client in its own
// sub-package. Providers differ only in endpoints and form parameters; the
// shape of the flow is the same everywhere: form-encoded POST to trade the
// authorization code for a provider access token, then a bearer-authenticated
// GET for the raw user-info payload.
package oauth

import (
	"context"
	"fmt"
	"strings"
)

// Provider identifies an external identity provider.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderNaver  Provider = "naver"
	ProviderKakao  Provider = "kakao"
)

// String returns the canonical registration id.
func (p Provider) String() string { return string(p) }

// ParseProvider maps a path/config value to a known provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderNaver:
		return ProviderNaver, nil
	case ProviderKakao:
		return ProviderKakao, nil
	default:
		return "", fmt.Errorf("oauth: unknown provider %q", s)
	}
}

// TokenResponse holds the token-endpoint response fields shared by all
// three providers.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// ExchangeInput carries the front-channel values needed for the code
// exchange. State is only meaningful for Naver (CSRF token echoed from the
// original redirect); other providers ignore it.
type ExchangeInput struct {
	Code        string
	RedirectURI string
	State       string
}

// Client is the per-provider OAuth2 client. Implementations perform no
// retries: authorization codes are single-use, so a failed exchange cannot
// be replayed safely.
type Client interface {
	Provider() Provider

	// ExchangeCode trades an authorization code for a provider access token.
	ExchangeCode(ctx context.Context, in ExchangeInput) (*TokenResponse, error)

	// FetchUserInfo fetches the raw user-info payload with the provider
	// access token. The payload keeps the provider's own nesting; profile
	// extraction is a separate, pure step.
	FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error)
}
