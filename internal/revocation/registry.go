// Package revocation adds revocability to otherwise stateless tokens: a
// write-through blacklist with TTL equal to the token's remaining lifetime.
// It is a side table, not a source of truth for identity — entries
// self-expire exactly when the tokens they shadow would fail expiry anyway.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/cotato/auth-service/internal/cache"
	"github.com/cotato/auth-service/internal/observability/logger"
)

const keyPrefix = "blacklist:"

// Registry tracks revoked tokens until their natural expiry.
type Registry struct {
	cache cache.Client
}

// NewRegistry creates a registry over the given cache backend.
func NewRegistry(c cache.Client) *Registry {
	return &Registry{cache: c}
}

// fingerprint derives the storage key: tokens are never stored raw.
func fingerprint(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Revoke blacklists the token for ttl, which must be the token's remaining
// lifetime at call time. A zero or negative ttl is a no-op: the token
// already fails expiry validation, so an entry would only outlive it.
func (r *Registry) Revoke(ctx context.Context, tokenStr string, ttl time.Duration) error {
	if ttl <= 0 {
		logger.From(ctx).Debug("skipping revocation of already-expired token",
			logger.Component("revocation"))
		return nil
	}
	return r.cache.Set(ctx, fingerprint(tokenStr), "revoked", ttl)
}

// IsRevoked reports whether the token is currently blacklisted. Backend
// errors surface to the caller, which should fail closed.
func (r *Registry) IsRevoked(ctx context.Context, tokenStr string) (bool, error) {
	return r.cache.Exists(ctx, fingerprint(tokenStr))
}
