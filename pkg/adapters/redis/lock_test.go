package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceflex/intercept/pkg/adapters/redis"
)

func TestLockerAcquireRelease(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "pfx:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "s-1", time.Minute)
	require.NoError(t, err)

	// A second acquisition of the same key must block until release.
	blocked, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "s-1", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "s-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLockerIndependentKeys(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "pfx:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "s-a", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	unlockB, err := locker.Lock(ctx, "s-b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
