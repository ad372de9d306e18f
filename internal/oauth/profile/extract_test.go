package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/profile"
)

func TestExtract_WellFormedPayloads(t *testing.T) {
	cases := []struct {
		name     string
		provider oauth.Provider
		attrs    map[string]any
		want     profile.Profile
	}{
		{
			name:     "google top-level fields",
			provider: oauth.ProviderGoogle,
			attrs: map[string]any{
				"id":    "1089",
				"name":  "Kim Minsu",
				"email": "minsu@gmail.com",
			},
			want: profile.Profile{Name: "Kim Minsu", Email: "minsu@gmail.com", Provider: oauth.ProviderGoogle},
		},
		{
			name:     "naver nested under response",
			provider: oauth.ProviderNaver,
			attrs: map[string]any{
				"resultcode": "00",
				"message":    "success",
				"response": map[string]any{
					"id":    "abc123",
					"name":  "이영희",
					"email": "younghee@naver.com",
				},
			},
			want: profile.Profile{Name: "이영희", Email: "younghee@naver.com", Provider: oauth.ProviderNaver},
		},
		{
			name:     "kakao nested under kakao_account.profile",
			provider: oauth.ProviderKakao,
			attrs: map[string]any{
				"id": float64(99182),
				"kakao_account": map[string]any{
					"email": "chulsoo@kakao.com",
					"profile": map[string]any{
						"nickname": "철수",
					},
				},
			},
			want: profile.Profile{Name: "철수", Email: "chulsoo@kakao.com", Provider: oauth.ProviderKakao},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := profile.Extract(tc.provider, tc.attrs)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtract_MalformedPayloads(t *testing.T) {
	cases := []struct {
		name     string
		provider oauth.Provider
		attrs    map[string]any
	}{
		{
			name:     "naver without response object",
			provider: oauth.ProviderNaver,
			attrs:    map[string]any{"resultcode": "024", "message": "Authentication failed"},
		},
		{
			name:     "kakao without kakao_account",
			provider: oauth.ProviderKakao,
			attrs:    map[string]any{"id": float64(1)},
		},
		{
			name:     "kakao without nested profile",
			provider: oauth.ProviderKakao,
			attrs: map[string]any{
				"id":            float64(1),
				"kakao_account": map[string]any{"email": "x@kakao.com"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := profile.Extract(tc.provider, tc.attrs)
			require.ErrorIs(t, err, profile.ErrMalformed)
		})
	}
}

func TestExtract_UnsupportedProvider(t *testing.T) {
	_, err := profile.Extract(oauth.Provider("github"), map[string]any{"name": "x"})
	require.ErrorIs(t, err, profile.ErrUnsupportedProvider)
}

func TestExtract_MissingScalarFieldsAreEmptyNotError(t *testing.T) {
	// Only the nesting is mandatory; absent name/email come back empty,
	// matching what the providers actually do for unconsented scopes.
	got, err := profile.Extract(oauth.ProviderNaver, map[string]any{
		"response": map[string]any{"id": "abc"},
	})
	require.NoError(t, err)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.Email)
}
