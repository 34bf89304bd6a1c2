package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

// Local locks keys inside one process.
type Local struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal(wait time.Duration) *Local {
	return &Local{
		wait:  wait,
		slots: make(map[string]*slot),
	}
}

func (that *Local) Acquire(ctx context.Context, key string) (Release, error) {
	s := that.ref(key)

	if err := that.take(ctx, key, s); err != nil {
		that.unref(key)
		return nil, err
	}

	var once sync.Once

	return func() error {
		once.Do(func() {
			<-s.ch
			that.unref(key)
		})
		return nil
	}, nil
}

func (that *Local) take(ctx context.Context, key string, s *slot) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(that.wait)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: %s held for more than %s", apperror.ErrGameBusy, key, that.wait)
	case <-ctx.Done():
		return fmt.Errorf("failed to lock %s: %w", key, ctx.Err())
	}
}

func (that *Local) ref(key string) *slot {
	that.mu.Lock()
	defer that.mu.Unlock()

	s, ok := that.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		that.slots[key] = s
	}
	s.refs++

	return s
}

// unref drops idle keys so the map does not grow with every game ever played.
func (that *Local) unref(key string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	s := that.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(that.slots, key)
	}
}
