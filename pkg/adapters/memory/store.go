package memory

import (
	"context"
	"sync"

	"github.com/priceflex/intercept/pkg/domain"
)

// SessionStore implements ports.SessionStore in memory.
// Safe for concurrent use.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]*domain.Session)}
}

// Save persists a snapshot of the session. The stored copy is isolated from
// later caller mutation, mirroring what a serializing store would do.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	snapshot := cloneSession(sess)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = snapshot
	return nil
}

// Load retrieves a session copy by ID.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, domain.Newf(domain.KindSessionNotFound, "session %q not found", id)
	}
	return cloneSession(sess), nil
}

// Delete removes a session. Absent IDs are a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// cloneSession deep-copies the overlay tree so two loads never share nested
// maps.
func cloneSession(src *domain.Session) *domain.Session {
	out := *src
	out.Overrides = cloneTree(src.Overrides)
	return &out
}

func cloneTree(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneTree(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// Cache implements ports.CacheStore in memory.
type Cache struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]any)}
}

// Put stores value under key, replacing any previous value.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// Get returns the cached value and whether the key exists.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok, nil
}
