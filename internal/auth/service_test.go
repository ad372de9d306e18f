package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotato/auth-service/internal/cache"
	"github.com/cotato/auth-service/internal/domain/repository"
	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/google"
	"github.com/cotato/auth-service/internal/oauth/profile"
	"github.com/cotato/auth-service/internal/revocation"
	"github.com/cotato/auth-service/internal/store/memory"
	"github.com/cotato/auth-service/internal/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	svc    Service
	users  *memory.UserStore
	tokens *token.Engine
	revs   *revocation.Registry
	google *google.Client
}

// newFixture wires the service against an in-memory store, a memory-backed
// revocation registry, and a Google client pointed at the given fake
// provider (may be nil for flows that never reach a provider).
func newFixture(t *testing.T, provider *httptest.Server) *fixture {
	t.Helper()

	engine, err := token.NewEngine(testSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)

	users := memory.NewUserStore()
	revs := revocation.NewRegistry(cache.NewMemory("t:"))

	reg := oauth.NewRegistry()
	g := google.New("cid", "csecret")
	if provider != nil {
		g.TokenURL = provider.URL + "/token"
		g.UserInfoURL = provider.URL + "/userinfo"
	}
	reg.Register(g)

	return &fixture{
		svc: NewService(Deps{
			Providers:   reg,
			Users:       users,
			Tokens:      engine,
			Revocations: revs,
		}),
		users:  users,
		tokens: engine,
		revs:   revs,
		google: g,
	}
}

// fakeGoogle serves the token and userinfo endpoints with fixed payloads.
func fakeGoogle(t *testing.T, userinfo map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.NotEmpty(t, r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer provider-access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userinfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, f *fixture) *TokenPair {
	t.Helper()
	pair, err := f.svc.Login(context.Background(), oauth.ProviderGoogle, LoginInput{
		Code:        "auth-code",
		RedirectURI: "http://localhost/cb",
	})
	require.NoError(t, err)
	return pair
}

func TestLoginCreatesUserAndIssuesPair(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)

	pair := login(t, f)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 1, f.users.Len())

	claims, err := f.tokens.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, token.TypeAccess, claims.Type)
	assert.Equal(t, "ada@example.com", claims.Email)

	user, err := f.users.FindByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "google", user.Provider)
}

func TestLoginIsIdempotentPerEmailProvider(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)

	first := login(t, f)
	second := login(t, f)

	assert.Equal(t, 1, f.users.Len(), "repeat login must not create a second row")

	c1, err := f.tokens.Validate(first.AccessToken)
	require.NoError(t, err)
	c2, err := f.tokens.Validate(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, c1.UserID, c2.UserID)
}

func TestLoginUnknownProvider(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Login(context.Background(), oauth.Provider("github"), LoginInput{Code: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Equal(t, 0, f.users.Len())
}

func TestLoginProviderExchangeFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	f := newFixture(t, srv)
	_, err := f.svc.Login(context.Background(), oauth.ProviderGoogle, LoginInput{
		Code: "stale-code", RedirectURI: "http://localhost/cb",
	})
	require.Error(t, err)
	assert.True(t, oauth.IsProviderError(err))
	assert.Equal(t, 0, f.users.Len(), "a failed exchange must leave no user behind")
}

func TestRefreshIssuesFreshPair(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	fresh, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.AccessToken)
	require.NotEmpty(t, fresh.RefreshToken)

	old, err := f.tokens.Validate(pair.RefreshToken)
	require.NoError(t, err)
	got, err := f.tokens.Validate(fresh.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, old.UserID, got.UserID)

	// Rotation does not revoke the previous refresh token.
	revoked, err := f.revs.IsRevoked(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	_, err := f.svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrNotRefreshToken)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	require.NoError(t, f.svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	_, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, token.ErrMalformed)
}

func TestRefreshForDeletedUser(t *testing.T) {
	f := newFixture(t, nil)

	refresh, err := f.tokens.IssueRefresh("gone-user-id")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	require.NoError(t, f.svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	for _, tok := range []string{pair.AccessToken, pair.RefreshToken} {
		revoked, err := f.revs.IsRevoked(context.Background(), tok)
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}

func TestLogoutSkipsInvalidTokens(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	// Garbage access token, valid refresh token: only the latter lands
	// on the blacklist and the call still succeeds.
	require.NoError(t, f.svc.Logout(context.Background(), "garbage", pair.RefreshToken))

	revoked, err := f.revs.IsRevoked(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = f.revs.IsRevoked(context.Background(), "garbage")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLogoutWithoutRefreshToken(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	require.NoError(t, f.svc.Logout(context.Background(), pair.AccessToken, ""))

	revoked, err := f.revs.IsRevoked(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestIntrospect(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	res, err := f.svc.Introspect(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, "ada@example.com", res.Email)

	res, err = f.svc.Introspect(context.Background(), "bogus")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, res.UserID)
}

func TestIntrospectIgnoresRevocation(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)
	require.NoError(t, f.svc.Logout(context.Background(), pair.AccessToken, ""))

	// Introspection is a pure signature+expiry check.
	res, err := f.svc.Introspect(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestCurrentUser(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	user, err := f.svc.CurrentUser(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
}

func TestCurrentUserRejectsRefreshToken(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)

	_, err := f.svc.CurrentUser(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCurrentUserRejectsAfterLogout(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "Ada", "email": "ada@example.com"})
	f := newFixture(t, srv)
	pair := login(t, f)
	require.NoError(t, f.svc.Logout(context.Background(), pair.AccessToken, ""))

	_, err := f.svc.CurrentUser(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

// Full session lifecycle: login, authenticated read, refresh, use the new
// access token, logout, and verify the refresh path is closed.
func TestSessionLifecycle(t *testing.T) {
	srv := fakeGoogle(t, map[string]any{"name": "철수", "email": "a@b.com"})
	f := newFixture(t, srv)
	ctx := context.Background()

	pair := login(t, f)

	me, err := f.svc.CurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", me.Email)

	fresh, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	me2, err := f.svc.CurrentUser(ctx, fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, me.ID, me2.ID)

	require.NoError(t, f.svc.Logout(ctx, fresh.AccessToken, fresh.RefreshToken))

	_, err = f.svc.Refresh(ctx, fresh.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Equal(t, 1, f.users.Len())
}

func testProfile(email string) profile.Profile {
	return profile.Profile{Name: "Ada", Email: email, Provider: oauth.ProviderGoogle}
}

// Stub repository that fails Create with ErrConflict once, simulating a
// lost race against a concurrent first login.
type racingRepo struct {
	*memory.UserStore
	raced bool
}

func (r *racingRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if !r.raced {
		r.raced = true
		// The winner's row becomes visible before our insert fails.
		if _, err := r.UserStore.Create(ctx, in); err != nil {
			return nil, err
		}
		return nil, repository.ErrConflict
	}
	return r.UserStore.Create(ctx, in)
}

func TestResolverLostCreateRace(t *testing.T) {
	repo := &racingRepo{UserStore: memory.NewUserStore()}
	r := NewResolver(repo)

	user, err := r.Resolve(context.Background(), testProfile("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, 1, repo.Len())
}

type failingRepo struct {
	*memory.UserStore
}

var errStorage = errors.New("storage down")

func (failingRepo) FindByEmailAndProvider(context.Context, string, string) (*repository.User, error) {
	return nil, errStorage
}

func TestResolverPropagatesStorageErrors(t *testing.T) {
	r := NewResolver(failingRepo{memory.NewUserStore()})

	_, err := r.Resolve(context.Background(), testProfile("ada@example.com"))
	assert.ErrorIs(t, err, errStorage)
}
