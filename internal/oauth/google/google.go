// Package google implements the Google OAuth2 code exchange and user-info
// fetch against the v2 userinfo endpoint.
package google

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cotato/auth-service/internal/oauth"
)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Client is the Google OAuth2 client.
type Client struct {
	clientID     string
	clientSecret string

	// Endpoints are overridable for tests.
	TokenURL    string
	UserInfoURL string

	http *http.Client
}

// New creates a Google client with the default endpoints.
func New(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		TokenURL:     tokenEndpoint,
		UserInfoURL:  userInfoEndpoint,
		http:         oauth.NewHTTPClient(),
	}
}

func (c *Client) Provider() oauth.Provider { return oauth.ProviderGoogle }

// ExchangeCode trades an authorization code for a Google access token. The
// redirect URI must match the one registered in the Google console; a
// mismatch is rejected by Google, not locally.
func (c *Client) ExchangeCode(ctx context.Context, in oauth.ExchangeInput) (*oauth.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", in.Code)
	form.Set("redirect_uri", in.RedirectURI)

	return oauth.PostToken(ctx, c.http, c.Provider(), c.TokenURL, form)
}

// FetchUserInfo returns the raw userinfo payload; name and email live at
// the top level.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	return oauth.GetUserInfo(ctx, c.http, c.Provider(), c.UserInfoURL, accessToken)
}
