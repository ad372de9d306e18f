// Package cache provides the TTL key-value abstraction backing the token
// blacklist.
//
// Backends:
//   - Memory (in-process, dev/testing)
//   - Redis (shared, production)
//
// TTL expiry is advisory reclamation: a slightly-late eviction never makes
// a revoked token acceptable before its natural expiry, because the token's
// own exp claim is always checked first.
package cache

import (
	"context"
	"time"
)

// Client defines the cache operations.
type Client interface {
	// Get returns a value, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL. ttl == 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string // prepended to every key
}

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound reports whether err is a missing-key error.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New builds a client for the configured driver.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}
