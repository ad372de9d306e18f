package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotato/auth-service/internal/auth"
	"github.com/cotato/auth-service/internal/cache"
	authctrl "github.com/cotato/auth-service/internal/http/controllers/auth"
	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/kakao"
	"github.com/cotato/auth-service/internal/revocation"
	"github.com/cotato/auth-service/internal/store/memory"
	"github.com/cotato/auth-service/internal/token"
)

// newTestHandler wires the full stack over memory backends and a fake
// Kakao provider.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "kakao-token"})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"kakao_account": map[string]any{
				"email":   "kim@example.com",
				"profile": map[string]any{"nickname": "영희"},
			},
		})
	})
	fake := httptest.NewServer(mux)
	t.Cleanup(fake.Close)

	engine, err := token.NewEngine([]byte("0123456789abcdef0123456789abcdef"), 30*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	k := kakao.New("kid", "")
	k.TokenURL = fake.URL + "/token"
	k.UserInfoURL = fake.URL + "/userinfo"
	reg := oauth.NewRegistry()
	reg.Register(k)

	svc := auth.NewService(auth.Deps{
		Providers:   reg,
		Users:       memory.NewUserStore(),
		Tokens:      engine,
		Revocations: revocation.NewRegistry(cache.NewMemory("t:")),
	})

	return New(Deps{
		Service:         svc,
		AuthControllers: authctrl.NewControllers(svc, 30*time.Minute),
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func loginPair(t *testing.T, h http.Handler) (access, refresh string) {
	t.Helper()
	rec := postJSON(t, h, "/api/auth/kakao/callback", map[string]string{
		"code": "auth-code", "redirectUri": "http://localhost/cb",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["accessToken"].(string), resp["refreshToken"].(string)
}

func TestCallbackIssuesTokens(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/api/auth/kakao/callback", map[string]string{
		"code": "auth-code", "redirectUri": "http://localhost/cb",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["accessToken"])
	assert.NotEmpty(t, resp["refreshToken"])
	assert.Equal(t, "Bearer", resp["tokenType"])
	assert.EqualValues(t, 1800, resp["expiresIn"])
}

func TestCallbackUnknownProvider(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/api/auth/github/callback", map[string]string{"code": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackMissingCode(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/api/auth/kakao/callback", map[string]string{"redirectUri": "u"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	h := newTestHandler(t)
	_, refresh := loginPair(t, h)

	rec := postJSON(t, h, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h, "/api/auth/refresh", map[string]string{"refreshToken": "garbage"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestMeRequiresAuth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	h := newTestHandler(t)
	access, _ := loginPair(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "kim@example.com", resp["email"])
	assert.Equal(t, "영희", resp["name"])
	assert.Equal(t, "kakao", resp["provider"])
}

func TestLogoutFlow(t *testing.T) {
	h := newTestHandler(t)
	access, refresh := loginPair(t, h)

	rec := postJSON(t, h, "/api/auth/logout",
		map[string]string{"refreshToken": refresh},
		map[string]string{"Authorization": "Bearer " + access})
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The access token no longer authenticates.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	mrec := httptest.NewRecorder()
	h.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusUnauthorized, mrec.Code)

	// And the refresh token is burnt.
	rrec := postJSON(t, h, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
	assert.Equal(t, http.StatusUnauthorized, rrec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	h := newTestHandler(t)
	access, _ := loginPair(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, "kim@example.com", resp["email"])

	// Garbage token: still 200, valid=false.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
}

func TestRequestIDPropagation(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRouteBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestMethodNotAllowedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/refresh", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// Smoke the whole session walkthrough in one pass for a second provider
// shape to keep the controllers honest about body parsing.
func TestSessionWalkthrough(t *testing.T) {
	h := newTestHandler(t)
	access, refresh := loginPair(t, h)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, h, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, nil)
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("rotation %d", i))
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		refresh = resp["refreshToken"].(string)
		access = resp["accessToken"].(string)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
