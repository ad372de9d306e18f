package auth

import (
	"context"
	"errors"

	"github.com/cotato/auth-service/internal/domain/repository"
	"github.com/cotato/auth-service/internal/oauth/profile"
	"github.com/cotato/auth-service/internal/observability/logger"
)

// Resolver looks up or creates the local user for a normalized profile.
type Resolver struct {
	users repository.UserRepository
}

// NewResolver creates a resolver over the given user repository.
func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user for (email, provider), creating it on first
// login. Repeat logins return the stored user unchanged: a provider-side
// name change is not reflected, by contract. The create path is race-safe:
// when a concurrent first login wins the unique-constraint insert, the
// loser falls back to reading the winner's row.
func (r *Resolver) Resolve(ctx context.Context, prof profile.Profile) (*repository.User, error) {
	provider := prof.Provider.String()

	user, err := r.users.FindByEmailAndProvider(ctx, prof.Email, provider)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	created, err := r.users.Create(ctx, repository.CreateUserInput{
		Name:     prof.Name,
		Email:    prof.Email,
		Provider: provider,
	})
	if errors.Is(err, repository.ErrConflict) {
		logger.From(ctx).Debug("lost create race, reading existing user",
			logger.Component("auth.resolver"), logger.Provider(provider))
		return r.users.FindByEmailAndProvider(ctx, prof.Email, provider)
	}
	if err != nil {
		return nil, err
	}

	logger.From(ctx).Info("created user on first login",
		logger.Component("auth.resolver"),
		logger.UserID(created.ID),
		logger.Provider(provider))
	return created, nil
}
