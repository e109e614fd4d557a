package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/priceflex/intercept/internal/logging"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // global lock for the map
	locks map[string]*lockEntry // active per-session locks

	distLocker ports.DistributedLocker
	distTTL    time.Duration

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDistributedLock extends per-session serialization across engine
// replicas. The TTL bounds how long a crashed holder keeps the session
// locked; zero means 30 seconds.
func WithDistributedLock(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(m *Manager) {
		m.distLocker = locker
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		m.distTTL = ttl
	}
}

// NewManager creates a session Manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the in-process lock for the session ID,
// and the distributed lock too when one is configured.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.distLocker != nil {
		unlock, err := m.distLocker.Lock(ctx, id, m.distTTL)
		if err != nil {
			return fmt.Errorf("acquire session lock %s: %w", id, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("session unlock failed", "session_id", id, "err", err)
			}
		}()
	}
	return fn(ctx)
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, id)
		return err
	})
	return sess, err
}

// LoadOrStart tries to load a session; when absent it starts one for the
// given user and persists it immediately to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, id string, user domain.User) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, id)
		if err == nil {
			return nil
		}
		if !domain.IsKind(err, domain.KindSessionNotFound) {
			return fmt.Errorf("check session existence: %w", err)
		}

		sess = domain.NewSession(id, user)
		if err := m.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("initialize session: %w", err)
		}
		m.logger.Debug("session started", "session_id", id, "user", user.Login)
		return nil
	})
	return sess, err
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, sess *domain.Session) error {
	return m.WithLock(ctx, sess.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, sess)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// WithSession loads the session, runs fn under the session lock, and saves
// the session back when fn succeeds. Overlay writes made inside fn are
// persisted atomically with respect to other WithSession calls on the same
// ID.
func (m *Manager) WithSession(ctx context.Context, id string, fn func(context.Context, *domain.Session) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		sess, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, sess); err != nil {
			return err
		}
		return m.store.Save(ctx, sess)
	})
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
