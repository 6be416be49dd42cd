package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a drawing lock. Releasing an expired lock is a no-op.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises writes to one drawing across engine processes.
type DistributedLocker interface {
	// Lock blocks until the lock on drawing is held or ctx ends. The lock
	// lapses after ttl; the returned UnlockFunc must be called.
	Lock(ctx context.Context, drawing string, ttl time.Duration) (UnlockFunc, error)
}

// Locker runs fn while holding the lock for key. The lock is released on
// every exit path.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}
