package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("booking lock not acquired")
)

// DayLocker guards the booking commit critical section for a whole
// business day. A booking occupies its own slot plus any later slots
// its duration runs into, so commits for the same date must serialize
// with each other, not just commits for the same slot.
type DayLocker interface {
	WithDayLock(ctx context.Context, date string, fn func(ctx context.Context) error) error
}

// redisClient is the subset of redis.Client the locker needs.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisDayLocker struct {
	client redisClient
	ttl    time.Duration

	// A contended lock is retried until acquireWait elapses, so two
	// bookers of a slot with spare capacity do not get a spurious
	// conflict from the lock itself.
	acquireWait   time.Duration
	retryInterval time.Duration
}

// NewRedisDayLocker creates a locker that uses a per date Redis key.
func NewRedisDayLocker(client *redis.Client, ttl time.Duration) DayLocker {
	return &redisDayLocker{
		client:        client,
		ttl:           ttl,
		acquireWait:   2 * time.Second,
		retryInterval: 50 * time.Millisecond,
	}
}

func (l *redisDayLocker) WithDayLock(ctx context.Context, date string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:bookings:%s", date)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisDayLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.acquireWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire booking lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// Only delete the key if it still holds our token, so an expired lock
// re-acquired by someone else is never released by us.
const unlockScript = `
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`

func (l *redisDayLocker) release(ctx context.Context, key, token string) error {
	_, err := l.client.Eval(ctx, unlockScript, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock: %w", err)
	}
	return nil
}
