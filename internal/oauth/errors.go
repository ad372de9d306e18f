package oauth

import (
	"errors"
	"fmt"
)

// ProviderError is the single failure kind surfaced by provider clients:
// network errors, non-2xx responses and malformed bodies all collapse into
// it. Callers treat it as a gateway-class error.
type ProviderError struct {
	Provider Provider
	Op       string // "exchange" | "userinfo"
	Status   int    // HTTP status when the provider answered, 0 otherwise
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("oauth %s: %s failed (http %d): %v", e.Provider, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("oauth %s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is a provider communication failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
