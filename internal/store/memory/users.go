// Package memory implements the user repository in process memory, for
// development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cotato/auth-service/internal/domain/repository"
)

// UserStore is a thread-safe in-memory UserRepository.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*repository.User
	byEmail map[emailProviderKey]string // -> user id
}

type emailProviderKey struct {
	email    string
	provider string
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*repository.User),
		byEmail: make(map[emailProviderKey]string),
	}
}

func (s *UserStore) FindByEmailAndProvider(ctx context.Context, email, provider string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailProviderKey{email, provider}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

// Create mirrors the unique-constraint semantics of the SQL store: a
// duplicate (email, provider) insert returns ErrConflict under the same
// lock that made the first insert visible.
func (s *UserStore) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailProviderKey{in.Email, in.Provider}
	if _, exists := s.byEmail[key]; exists {
		return nil, repository.ErrConflict
	}

	u := &repository.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Provider:  in.Provider,
		CreatedAt: time.Now(),
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u.ID

	out := *u
	return &out, nil
}

// Len reports the number of stored users. Test helper.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
