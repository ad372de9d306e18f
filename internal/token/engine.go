// Package token implements the signed-token engine: issuance and validation
// of the self-contained access/refresh credentials the rest of the service
// trusts. Tokens are HMAC-SHA256 JWTs; the engine is the only owner of the
// signing secret.
package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Type is the token kind carried in the "type" claim. Access and refresh
// tokens are structurally identical apart from it, so callers must check
// the type explicitly when an operation requires one kind.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Leeway is the clock tolerance applied to exp/nbf during validation.
// Kept as a named constant so the expiry semantics are testable.
const Leeway = 30 * time.Second

// Validation failure kinds. All of them collapse to a generic 401 at the
// API boundary; they stay distinct here for logging.
var (
	ErrExpired     = errors.New("token: expired")
	ErrMalformed   = errors.New("token: malformed")
	ErrUnsupported = errors.New("token: unsupported")
	ErrInvalid     = errors.New("token: invalid")
)

// Claims are the verified contents of a token.
type Claims struct {
	UserID    string
	Email     string // empty on refresh tokens
	Type      Type
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns the lifetime left at now, never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	d := c.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Engine issues and validates signed tokens. The secret is immutable for
// the process lifetime; construct once at startup and share freely across
// goroutines.
type Engine struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// TimeFunc overrides the wall clock, for tests. Nil means time.Now.
	TimeFunc func() time.Time
}

// NewEngine builds an engine from the signing secret and the two validity
// windows.
func NewEngine(secret []byte, accessTTL, refreshTTL time.Duration) (*Engine, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token: signing secret too short (%d bytes, need 32)", len(secret))
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token: token TTLs must be positive")
	}
	return &Engine{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

func (e *Engine) now() time.Time {
	if e.TimeFunc != nil {
		return e.TimeFunc()
	}
	return time.Now()
}

// AccessTTL returns the configured access-token validity.
func (e *Engine) AccessTTL() time.Duration { return e.accessTTL }

// RefreshTTL returns the configured refresh-token validity.
func (e *Engine) RefreshTTL() time.Duration { return e.refreshTTL }

// IssueAccess mints a fresh access token carrying subject and email.
func (e *Engine) IssueAccess(userID, email string) (string, error) {
	now := e.now()
	claims := jwtv5.MapClaims{
		"sub":   userID,
		"email": email,
		"type":  string(TypeAccess),
		"iat":   now.Unix(),
		"exp":   now.Add(e.accessTTL).Unix(),
	}
	return e.sign(claims)
}

// IssueRefresh mints a fresh refresh token. Refresh tokens carry no email
// claim: smaller attack surface on leak.
func (e *Engine) IssueRefresh(userID string) (string, error) {
	now := e.now()
	claims := jwtv5.MapClaims{
		"sub":  userID,
		"type": string(TypeRefresh),
		"iat":  now.Unix(),
		"exp":  now.Add(e.refreshTTL).Unix(),
	}
	return e.sign(claims)
}

func (e *Engine) sign(claims jwtv5.MapClaims) (string, error) {
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign failed: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature first, then the exp claim against the
// engine's clock (with Leeway), and returns the claims. It does NOT consult
// revocation; that gate is layered explicitly by the caller.
func (e *Engine) Validate(tokenStr string) (*Claims, error) {
	tok, err := jwtv5.Parse(tokenStr,
		func(t *jwtv5.Token) (any, error) { return e.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithTimeFunc(e.now),
		jwtv5.WithLeeway(Leeway),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !tok.Valid {
		return nil, ErrInvalid
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}

	out := &Claims{}
	out.UserID, _ = mc["sub"].(string)
	out.Email, _ = mc["email"].(string)
	if typ, _ := mc["type"].(string); typ != "" {
		out.Type = Type(typ)
	}
	if iat, ok := mc["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if out.UserID == "" {
		return nil, ErrMalformed
	}
	return out, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtv5.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return ErrInvalid
	case errors.Is(err, jwtv5.ErrTokenUnverifiable):
		return ErrUnsupported
	default:
		return ErrInvalid
	}
}
