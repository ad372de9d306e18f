// Package naver implements the Naver OAuth2 code exchange and user-info
// fetch. Naver requires the CSRF state token from the original redirect to
// be echoed on the exchange.
package naver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cotato/auth-service/internal/oauth"
)

const (
	tokenEndpoint    = "https://nid.naver.com/oauth2.0/token"
	userInfoEndpoint = "https://openapi.naver.com/v1/nid/me"
)

// Client is the Naver OAuth2 client.
type Client struct {
	clientID     string
	clientSecret string

	// Endpoints are overridable for tests.
	TokenURL    string
	UserInfoURL string

	http *http.Client
}

// New creates a Naver client with the default endpoints.
func New(clientID, clientSecret string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		TokenURL:     tokenEndpoint,
		UserInfoURL:  userInfoEndpoint,
		http:         oauth.NewHTTPClient(),
	}
}

func (c *Client) Provider() oauth.Provider { return oauth.ProviderNaver }

// ExchangeCode trades an authorization code for a Naver access token.
// Naver validates code+state server-side; the redirect URI is bound to the
// app registration and not sent on the exchange.
func (c *Client) ExchangeCode(ctx context.Context, in oauth.ExchangeInput) (*oauth.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", in.Code)
	form.Set("state", in.State)

	return oauth.PostToken(ctx, c.http, c.Provider(), c.TokenURL, form)
}

// FetchUserInfo returns the raw payload; the profile lives under the
// "response" object next to resultcode/message.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	return oauth.GetUserInfo(ctx, c.http, c.Provider(), c.UserInfoURL, accessToken)
}
