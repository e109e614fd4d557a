package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates session access across engine replicas. The
// session manager serializes overlay writes per session ID in-process; in
// multi-instance deployments a DistributedLocker extends that guarantee
// across processes.
type DistributedLocker interface {
	// Lock acquires the lock for key, blocking until acquired or the context
	// ends. The TTL bounds how long a crashed holder can leave the key
	// locked. The returned UnlockFunc must be called to release.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
