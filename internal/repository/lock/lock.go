package lock

import "context"

// Release gives a held lock back. Calling it more than once is a no-op.
type Release func() error

// Locker serializes work per key. Acquire waits a bounded time and fails
// with apperror.ErrGameBusy when the key stays held.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}
