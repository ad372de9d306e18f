package oauth

import (
	"fmt"
	"sync"
)

// Registry holds the configured provider clients.
// Register at startup, Get per request.
type Registry struct {
	mu      sync.RWMutex
	clients map[Provider]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[Provider]Client)}
}

// Register installs a client for its provider. Later registrations replace
// earlier ones.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Provider()] = c
}

// Get returns the client for provider, or an error when none is configured.
func (r *Registry) Get(p Provider) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[p]
	if !ok {
		return nil, fmt.Errorf("oauth: provider not configured: %s", p)
	}
	return c, nil
}

// Available lists the registered provider names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for p := range r.clients {
		names = append(names, string(p))
	}
	return names
}
