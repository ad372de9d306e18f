package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique-constraint violation (duplicate
	// (email, provider) insert racing another request).
	ErrConflict = errors.New("conflict")
)

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
