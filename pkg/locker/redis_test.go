package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "history:refresh"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLocker_AcquireAndContention(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "first acquisition should succeed")

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "second acquisition should fail while held")
}

func TestRedisLocker_ReleaseAllowsReacquire(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	l := NewRedisLocker(client, zap.NewNop())

	acquired, err := l.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, l.Release(ctx, testLockKey))

	acquired, err = l.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "should be able to acquire after release")
}

func TestRedisLocker_ReleaseNotOwned(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	owner := NewRedisLocker(client, zap.NewNop())
	other := NewRedisLocker(client, zap.NewNop())

	acquired, err := owner.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey), "releasing a foreign lock is a no-op")

	acquired, err = other.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "lock should still be held by its owner")
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())

	acquired, err := first.Acquire(ctx, testLockKey, time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Second)

	acquired, err = second.Acquire(ctx, testLockKey, time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "expired lock should be free")
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	const instances = 5
	results := make(chan bool, instances)
	for range instances {
		go func() {
			acquired, _ := NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, 2*time.Second)
			results <- acquired
		}()
	}

	successes := 0
	for range instances {
		if <-results {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one instance should acquire the lock")
}

func TestRedisLocker_ContextCancellation(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewRedisLocker(client, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := l.Acquire(ctx, testLockKey, 5*time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}

func TestCooldown(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	l := NewRedisLocker(client, zap.NewNop())

	runs := 0
	run := func(context.Context) error {
		runs++
		return nil
	}

	require.NoError(t, Cooldown(ctx, l, testLockKey, time.Minute, run))
	err := Cooldown(ctx, NewRedisLocker(client, zap.NewNop()), testLockKey, time.Minute, run)
	assert.ErrorIs(t, err, ErrNotAcquired, "lock is kept after success")
	assert.Equal(t, 1, runs)
}

func TestCooldown_ReleasesOnFailure(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	l := NewRedisLocker(client, zap.NewNop())

	boom := errors.New("boom")
	err := Cooldown(ctx, l, testLockKey, time.Minute, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	acquired, err := NewRedisLocker(client, zap.NewNop()).Acquire(ctx, testLockKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "failed run should free the lock for a retry")
}
