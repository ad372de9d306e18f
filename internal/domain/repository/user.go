// Package repository defines the persistence contracts the auth core
// depends on. Implementations live under internal/store.
package repository

import (
	"context"
	"time"
)

// User is a local account created on first successful login for a given
// (email, provider) pair. The same email under different providers is a
// distinct user.
type User struct {
	ID        string
	Name      string
	Email     string
	Provider  string // "google" | "naver" | "kakao"
	CreatedAt time.Time
}

// CreateUserInput carries the normalized profile for a first login.
type CreateUserInput struct {
	Name     string
	Email    string
	Provider string
}

// UserRepository persists users keyed by (email, provider).
type UserRepository interface {
	// FindByEmailAndProvider returns the user, or ErrNotFound.
	FindByEmailAndProvider(ctx context.Context, email, provider string) (*User, error)

	// FindByID returns the user, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// Create inserts a user, assigning its ID. Two concurrent Creates for
	// the same (email, provider) must not both succeed: the loser gets
	// ErrConflict and falls back to a read.
	Create(ctx context.Context, in CreateUserInput) (*User, error)
}
