package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("Holders of one key never overlap", func(t *testing.T) {
		// Given: a locker with a generous wait
		locker := NewLocal(5 * time.Second)

		var (
			inside  atomic.Int32
			maxSeen atomic.Int32
			wg      sync.WaitGroup
		)

		// When: many goroutines take the same key
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				release, err := locker.Acquire(ctx, "abcdef")
				if !assert.NoError(t, err) {
					return
				}

				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)

				assert.NoError(t, release())
			}()
		}
		wg.Wait()

		// Then: at most one was ever inside, and the key was forgotten afterwards
		assert.Equal(t, int32(1), maxSeen.Load())
		assert.Empty(t, locker.slots)
	})

	t.Run("Waiting past the budget fails with ErrGameBusy", func(t *testing.T) {
		// Given: a held key
		locker := NewLocal(20 * time.Millisecond)
		release, err := locker.Acquire(ctx, "abcdef")
		require.NoError(t, err)
		defer func() { _ = release() }()

		// When: another caller asks for it
		_, err = locker.Acquire(ctx, "abcdef")

		// Then: ErrGameBusy is returned
		require.ErrorIs(t, err, apperror.ErrGameBusy)
	})

	t.Run("Different keys do not block each other", func(t *testing.T) {
		// Given: a held key and no wait budget
		locker := NewLocal(0)
		release, err := locker.Acquire(ctx, "abcdef")
		require.NoError(t, err)
		defer func() { _ = release() }()

		// When: another key is taken
		other, err := locker.Acquire(ctx, "ghijkl")

		// Then: it succeeds at once
		require.NoError(t, err)
		assert.NoError(t, other())
	})

	t.Run("A cancelled context stops the wait", func(t *testing.T) {
		// Given: a held key
		locker := NewLocal(time.Minute)
		release, err := locker.Acquire(ctx, "abcdef")
		require.NoError(t, err)
		defer func() { _ = release() }()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// When: a caller with a cancelled context asks for it
		_, err = locker.Acquire(cancelled, "abcdef")

		// Then: the context error is returned
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Release is idempotent", func(t *testing.T) {
		// Given: a lock released twice
		locker := NewLocal(0)
		release, err := locker.Acquire(ctx, "abcdef")
		require.NoError(t, err)
		require.NoError(t, release())
		require.NoError(t, release())

		// When: the key is taken again
		again, err := locker.Acquire(ctx, "abcdef")

		// Then: it is free
		require.NoError(t, err)
		assert.NoError(t, again())
	})
}
