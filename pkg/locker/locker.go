// Package locker provides distributed locking for coordinating work across
// service instances.
package locker

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned by Cooldown when another instance holds the lock.
var ErrNotAcquired = errors.New("lock held by another instance")

// DistributedLocker provides distributed lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire attempts to take the lock without waiting. It returns false,
	// not an error, when another instance holds it. The lock expires after
	// ttl unless released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock taken by this instance. Releasing a lock this
	// instance does not hold is a no-op.
	Release(ctx context.Context, key string) error
}

// Cooldown runs fn at most once per ttl across all instances. The lock is
// kept after a successful run so that it expires on its own, and released
// early when fn fails so that another instance may retry.
func Cooldown(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(context.Context) error) error {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrNotAcquired
	}

	if err := fn(ctx); err != nil {
		// Release with a fresh context: ctx may be the reason fn failed.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return errors.Join(err, l.Release(releaseCtx, key))
	}

	return nil
}
