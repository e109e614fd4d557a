// Package redis provides Redis-backed session and cache stores plus a
// distributed session lock, for deployments running more than one engine
// replica.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/priceflex/intercept/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// SessionStore implements ports.SessionStore on Redis. Sessions are stored
// as JSON under prefix+ID.
type SessionStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// StoreOption configures a SessionStore or Cache.
type StoreOption func(*storeConfig)

type storeConfig struct {
	prefix string
	ttl    time.Duration
}

// WithTTL sets the key expiration. Zero keeps keys forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) { c.ttl = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) StoreOption {
	return func(c *storeConfig) { c.prefix = prefix }
}

// NewSessionStore creates a store from an existing client.
func NewSessionStore(client *backend.Client, opts ...StoreOption) *SessionStore {
	cfg := storeConfig{prefix: "pfx:session:"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SessionStore{client: client, prefix: cfg.prefix, ttl: cfg.ttl}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save persists the session as JSON, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.Newf(domain.KindSessionNotFound, "session %q not found", id)
		}
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Absent IDs are a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close closes the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

// Cache implements ports.CacheStore on Redis, JSON-encoding values. Used as
// the CRM payload cache shared by replicas.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewCache creates a cache from an existing client.
func NewCache(client *backend.Client, opts ...StoreOption) *Cache {
	cfg := storeConfig{prefix: "pfx:crm:"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache{client: client, prefix: cfg.prefix, ttl: cfg.ttl}
}

// Put stores value under key, replacing any previous value.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// Get returns the cached value and whether the key exists. JSON objects come
// back as map[string]any.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache read: %w", err)
	}

	var out any
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false, fmt.Errorf("unmarshal cache value: %w", err)
	}
	return out, true, nil
}
