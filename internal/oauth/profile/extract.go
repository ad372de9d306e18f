// Package profile normalizes the three provider user-info shapes into one
// identity profile. Extraction is pure: no I/O, dispatch by provider tag
// over a table of per-provider functions.
package profile

import (
	"errors"
	"fmt"

	"github.com/cotato/auth-service/internal/oauth"
)

// Profile is the normalized identity extracted from a provider payload.
// Transient: produced per login attempt, never persisted directly.
type Profile struct {
	Name     string
	Email    string
	Provider oauth.Provider
}

var (
	// ErrUnsupportedProvider is returned for a provider tag with no
	// extraction function.
	ErrUnsupportedProvider = errors.New("profile: unsupported provider")

	// ErrMalformed is returned when a payload is missing the nesting the
	// provider is documented to return.
	ErrMalformed = errors.New("profile: malformed provider payload")
)

type extractFunc func(attrs map[string]any) (Profile, error)

// One extraction function per provider; adding a provider means adding a
// row here, nothing else.
var extractors = map[oauth.Provider]extractFunc{
	oauth.ProviderGoogle: extractGoogle,
	oauth.ProviderNaver:  extractNaver,
	oauth.ProviderKakao:  extractKakao,
}

// Extract normalizes attrs for the given provider. The provider field of
// the result is stamped from the explicit tag, never inferred from the
// payload shape.
func Extract(p oauth.Provider, attrs map[string]any) (Profile, error) {
	fn, ok := extractors[p]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedProvider, p)
	}
	prof, err := fn(attrs)
	if err != nil {
		return Profile{}, err
	}
	prof.Provider = p
	return prof, nil
}

// Google returns name and email at the top level.
func extractGoogle(attrs map[string]any) (Profile, error) {
	return Profile{
		Name:  str(attrs, "name"),
		Email: str(attrs, "email"),
	}, nil
}

// Naver nests the profile under "response".
func extractNaver(attrs map[string]any) (Profile, error) {
	response, ok := obj(attrs, "response")
	if !ok {
		return Profile{}, fmt.Errorf("%w: naver payload missing response", ErrMalformed)
	}
	return Profile{
		Name:  str(response, "name"),
		Email: str(response, "email"),
	}, nil
}

// Kakao nests the email under "kakao_account" and the nickname one level
// deeper under "kakao_account.profile".
func extractKakao(attrs map[string]any) (Profile, error) {
	account, ok := obj(attrs, "kakao_account")
	if !ok {
		return Profile{}, fmt.Errorf("%w: kakao payload missing kakao_account", ErrMalformed)
	}
	kakaoProfile, ok := obj(account, "profile")
	if !ok {
		return Profile{}, fmt.Errorf("%w: kakao payload missing kakao_account.profile", ErrMalformed)
	}
	return Profile{
		Name:  str(kakaoProfile, "nickname"),
		Email: str(account, "email"),
	}, nil
}

func obj(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
