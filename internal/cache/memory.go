package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implements Client over an in-process go-cache store.
// Expired entries are swept every minute; Get/Exists never observe them.
type memoryClient struct {
	prefix string
	c      *gocache.Cache
}

// NewMemory creates an in-process cache client.
func NewMemory(prefix string) Client {
	return &memoryClient{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (m *memoryClient) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

func (m *memoryClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(m.key(key), value, ttl)
	return nil
}

func (m *memoryClient) Delete(ctx context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.c.Get(m.key(key))
	return ok, nil
}

func (m *memoryClient) Ping(ctx context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}
