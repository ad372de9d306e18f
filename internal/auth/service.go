// Package auth composes the provider clients, profile extractor, identity
// resolver, token engine and revocation registry into the per-endpoint
// flows: login, refresh, logout, introspect, current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cotato/auth-service/internal/domain/repository"
	"github.com/cotato/auth-service/internal/oauth"
	"github.com/cotato/auth-service/internal/oauth/profile"
	"github.com/cotato/auth-service/internal/observability/logger"
	"github.com/cotato/auth-service/internal/revocation"
	"github.com/cotato/auth-service/internal/token"
	"go.uber.org/zap"
)

// TokenPair is the result of a successful login or refresh. Every call
// mints fresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginInput carries the front-channel callback values.
type LoginInput struct {
	Code        string
	RedirectURI string
	State       string // Naver only
}

// Introspection is the result of a signature+expiry check.
type Introspection struct {
	Valid  bool
	UserID string
	Email  string
}

// Service is the auth orchestrator consumed by the HTTP controllers.
type Service interface {
	Login(ctx context.Context, provider oauth.Provider, in LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Introspect(ctx context.Context, tokenStr string) (*Introspection, error)
	CurrentUser(ctx context.Context, accessToken string) (*repository.User, error)
}

// Deps contains the service dependencies.
type Deps struct {
	Providers   *oauth.Registry
	Users       repository.UserRepository
	Tokens      *token.Engine
	Revocations *revocation.Registry
}

// Service errors. Token-related kinds stay distinct for logging but all
// map to a generic 401 at the HTTP boundary.
var (
	ErrUnsupportedProvider = errors.New("auth: unsupported provider")
	ErrUnauthorized        = errors.New("auth: unauthorized")
	ErrNotRefreshToken     = errors.New("auth: presented token is not a refresh token")
	ErrTokenRevoked        = errors.New("auth: token revoked")
	ErrUserGone            = errors.New("auth: token subject no longer resolvable")
)

type service struct {
	deps     Deps
	resolver *Resolver
}

// NewService creates the auth orchestrator.
func NewService(deps Deps) Service {
	return &service{
		deps:     deps,
		resolver: NewResolver(deps.Users),
	}
}

// Login runs codeExchange → profileExtraction → identityResolution →
// tokenIssuance. No intermediate state survives a failure: a later step
// failing leaves nothing to undo except the user row, and token issuance
// cannot fail short of misconfiguration.
func (s *service) Login(ctx context.Context, provider oauth.Provider, in LoginInput) (*TokenPair, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Provider(provider.String()),
	)

	client, err := s.deps.Providers.Get(provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}

	tr, err := client.ExchangeCode(ctx, oauth.ExchangeInput{
		Code:        in.Code,
		RedirectURI: in.RedirectURI,
		State:       in.State,
	})
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return nil, err
	}

	attrs, err := client.FetchUserInfo(ctx, tr.AccessToken)
	if err != nil {
		log.Warn("user-info fetch failed", logger.Err(err))
		return nil, err
	}

	prof, err := profile.Extract(provider, attrs)
	if err != nil {
		log.Warn("profile extraction failed", logger.Err(err))
		return nil, err
	}

	user, err := s.resolver.Resolve(ctx, prof)
	if err != nil {
		log.Error("identity resolution failed", logger.Err(err))
		return nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		return nil, err
	}

	log.Info("login successful", logger.UserID(user.ID))
	return pair, nil
}

// Refresh runs the four checks in order — revocation, signature+expiry,
// type, user existence — and reissues a fresh pair. The first failing
// check short-circuits with an unauthorized-class error. The old refresh
// token is not revoked on rotation; it stays valid until natural expiry or
// explicit logout.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
	)

	revoked, err := s.deps.Revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		// Fail closed: an unreachable blacklist must not let revoked
		// tokens through.
		log.Error("revocation check failed", logger.Err(err))
		return nil, err
	}
	if revoked {
		log.Warn("refresh attempted with revoked token")
		return nil, ErrTokenRevoked
	}

	claims, err := s.deps.Tokens.Validate(refreshToken)
	if err != nil {
		log.Warn("refresh attempted with invalid token", logger.Err(err))
		return nil, err
	}

	if claims.Type != token.TypeRefresh {
		log.Warn("refresh attempted with non-refresh token",
			logger.TokenType(string(claims.Type)))
		return nil, ErrNotRefreshToken
	}

	user, err := s.deps.Users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		// Unauthorized, not "not found": existence must not leak.
		log.Warn("refresh for unresolvable user", logger.UserID(claims.UserID))
		return nil, ErrUserGone
	}
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		log.Error("token issuance failed", logger.Err(err))
		return nil, err
	}

	log.Info("refresh successful", logger.UserID(user.ID))
	return pair, nil
}

// Logout revokes the presented access token and, when supplied, the
// refresh token. Tokens that fail validation are skipped, not errors:
// either, both or neither may end up revoked.
func (s *service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
	)

	s.revokeIfValid(ctx, log, accessToken, token.TypeAccess)
	if refreshToken != "" {
		s.revokeIfValid(ctx, log, refreshToken, token.TypeRefresh)
	}

	log.Info("logout processed")
	return nil
}

// revokeIfValid blacklists tokenStr for its remaining lifetime when it
// still validates. Best effort: failures are logged, never surfaced.
func (s *service) revokeIfValid(ctx context.Context, log *zap.Logger, tokenStr string, want token.Type) {
	claims, err := s.deps.Tokens.Validate(tokenStr)
	if err != nil {
		log.Debug("skipping revocation of invalid token",
			logger.TokenType(string(want)), logger.Err(err))
		return
	}
	ttl := claims.Remaining(time.Now())
	if err := s.deps.Revocations.Revoke(ctx, tokenStr, ttl); err != nil {
		log.Warn("failed to blacklist token", logger.Err(err))
		return
	}
	log.Debug("token blacklisted",
		logger.TokenType(string(claims.Type)),
		logger.UserID(claims.UserID))
}

// Introspect performs the signature+expiry check only. It deliberately
// does not consult the revocation registry; refresh and the authenticated
// endpoints do. An invalid token yields Valid=false, not an error.
func (s *service) Introspect(ctx context.Context, tokenStr string) (*Introspection, error) {
	claims, err := s.deps.Tokens.Validate(tokenStr)
	if err != nil {
		logger.From(ctx).Debug("introspection of invalid token",
			logger.Layer("service"), logger.Component("auth.introspect"), logger.Err(err))
		return &Introspection{Valid: false}, nil
	}
	return &Introspection{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// CurrentUser resolves the user behind a live access token. Unlike
// Introspect this is an authenticated read, so the revocation gate
// applies: a logged-out access token no longer identifies anyone.
func (s *service) CurrentUser(ctx context.Context, accessToken string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.me"),
	)

	revoked, err := s.deps.Revocations.IsRevoked(ctx, accessToken)
	if err != nil {
		log.Error("revocation check failed", logger.Err(err))
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := s.deps.Tokens.Validate(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != token.TypeAccess {
		return nil, ErrUnauthorized
	}

	user, err := s.deps.Users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserGone
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) issuePair(user *repository.User) (*TokenPair, error) {
	access, err := s.deps.Tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.deps.Tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
