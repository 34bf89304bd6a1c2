package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const redisKeyPrefix = "lock:game:"

// releaseScript deletes the lock only while it still carries our owner value,
// so a holder whose TTL ran out cannot drop somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis locks keys across every process sharing one Redis.
type Redis struct {
	client *redis.Client
	wait   time.Duration
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client, wait, ttl, retry time.Duration) *Redis {
	return &Redis{
		client: client,
		wait:   wait,
		ttl:    ttl,
		retry:  retry,
	}
}

func (that *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	lockKey := redisKeyPrefix + key
	owner := uuid.NewString()
	deadline := time.Now().Add(that.wait)

	for {
		ok, err := that.client.SetNX(ctx, lockKey, owner, that.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", key, err)
		}

		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s held for more than %s", apperror.ErrGameBusy, key, that.wait)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to lock %s: %w", key, ctx.Err())
		case <-time.After(that.retry):
		}
	}

	var (
		once sync.Once
		err  error
	)

	return func() error {
		once.Do(func() {
			// the caller's context may be gone by now
			releaseCtx, cancel := context.WithTimeout(context.Background(), that.ttl)
			defer cancel()

			if runErr := releaseScript.Run(releaseCtx, that.client, []string{lockKey}, owner).Err(); runErr != nil {
				err = fmt.Errorf("failed to unlock %s: %w", key, runErr)
			}
		})
		return err
	}, nil
}
