package ports

import (
	"context"

	"github.com/priceflex/intercept/pkg/domain"
)

// CacheStore is the opaque key-path cache behind Manager.UpdateCache. Writes
// are best-effort hints for the platform's payload caching; the protocol
// makes no consistency guarantee between a write and later reads.
type CacheStore interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value any) error

	// Get returns the cached value and whether the key exists.
	Get(ctx context.Context, key string) (any, bool, error)
}

// SessionStore persists client sessions.
type SessionStore interface {
	// Save persists the session, replacing any previous snapshot.
	Save(ctx context.Context, s *domain.Session) error

	// Load retrieves a session by ID. Returns a KindSessionNotFound error
	// when the ID is absent.
	Load(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
