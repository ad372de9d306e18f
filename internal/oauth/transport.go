package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound provider call. A timeout surfaces as
// a ProviderError like any other communication failure.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns the http.Client provider sub-packages share.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// PostToken performs the form-encoded code exchange against endpoint and
// decodes the token response. Non-2xx and malformed bodies map to
// ProviderError.
func PostToken(ctx context.Context, hc *http.Client, p Provider, endpoint string, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ProviderError{Provider: p, Op: "exchange", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p, Op: "exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var body struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &ProviderError{
			Provider: p,
			Op:       "exchange",
			Status:   resp.StatusCode,
			Err:      errBody(body.Error, body.ErrorDescription),
		}
	}

	var tr TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &ProviderError{Provider: p, Op: "exchange", Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &ProviderError{Provider: p, Op: "exchange", Err: errNoAccessToken}
	}
	return &tr, nil
}

// GetUserInfo performs the bearer-authenticated user-info fetch and returns
// the raw JSON object.
func GetUserInfo(ctx context.Context, hc *http.Client, p Provider, endpoint, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Provider: p, Op: "userinfo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p, Op: "userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &ProviderError{Provider: p, Op: "userinfo", Status: resp.StatusCode, Err: errNon2xx}
	}

	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, &ProviderError{Provider: p, Op: "userinfo", Err: err}
	}
	return attrs, nil
}
