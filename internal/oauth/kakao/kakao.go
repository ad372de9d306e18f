// Package kakao implements the Kakao OAuth2 code exchange and user-info
// fetch. The client secret is optional; Kakao only enforces it when enabled
// in the app settings.
package kakao

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cotato/auth-service/internal/oauth"
)

const (
	tokenEndpoint    = "https://kauth.kakao.com/oauth/token"
	userInfoEndpoint = "https://kapi.kakao.com/v2/user/me"
)

// Client is the Kakao OAuth2 client.
type Client struct {
	clientID     string
	clientSecret string // optional

	// Endpoints are overridable for tests.
	TokenURL    string
	UserInfoURL string

	http *http.Client
}

// New creates a Kakao client with the default endpoints. clientSecret may
// be empty.
func New(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		TokenURL:     tokenEndpoint,
		UserInfoURL:  userInfoEndpoint,
		http:         oauth.NewHTTPClient(),
	}
}

func (c *Client) Provider() oauth.Provider { return oauth.ProviderKakao }

// ExchangeCode trades an authorization code for a Kakao access token.
func (c *Client) ExchangeCode(ctx context.Context, in oauth.ExchangeInput) (*oauth.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("redirect_uri", in.RedirectURI)
	form.Set("code", in.Code)
	if c.clientSecret != "" {
		form.Set("client_secret", c.clientSecret)
	}

	return oauth.PostToken(ctx, c.http, c.Provider(), c.TokenURL, form)
}

// FetchUserInfo returns the raw /v2/user/me payload; the account object
// lives under "kakao_account" with the nickname nested one level deeper
// under "profile".
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	return oauth.GetUserInfo(ctx, c.http, c.Provider(), c.UserInfoURL, accessToken)
}
