package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker provides mutual exclusion across server replicas.
// The HTTP adapter takes it around replay so two replicas never reset the same session at once.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
