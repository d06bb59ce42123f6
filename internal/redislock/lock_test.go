package redislock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis scripts SetNX results and records the release Eval call.
type fakeRedis struct {
	setNXResults []bool
	setNXErr     error
	setNXCalls   int

	evalKeys []string
	evalArgs []interface{}
}

func (f *fakeRedis) SetNX(_ context.Context, _ string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	if f.setNXErr != nil {
		return redis.NewBoolResult(false, f.setNXErr)
	}
	ok := false
	if f.setNXCalls < len(f.setNXResults) {
		ok = f.setNXResults[f.setNXCalls]
	}
	f.setNXCalls++
	return redis.NewBoolResult(ok, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.evalKeys = keys
	f.evalArgs = args
	return redis.NewCmdResult(int64(1), nil)
}

func newTestLocker(client redisClient) *redisDayLocker {
	return &redisDayLocker{
		client:        client,
		ttl:           time.Second,
		acquireWait:   100 * time.Millisecond,
		retryInterval: 5 * time.Millisecond,
	}
}

func TestWithDayLock(t *testing.T) {
	t.Run("runs the callback and releases the key", func(t *testing.T) {
		rdb := &fakeRedis{setNXResults: []bool{true}}
		locker := newTestLocker(rdb)

		ran := false
		err := locker.WithDayLock(context.Background(), "2025-07-01", func(ctx context.Context) error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, []string{"lock:bookings:2025-07-01"}, rdb.evalKeys)
		require.Len(t, rdb.evalArgs, 1, "release must pass the lock token")
	})

	t.Run("retries a contended lock before giving up", func(t *testing.T) {
		rdb := &fakeRedis{setNXResults: []bool{false, false, true}}
		locker := newTestLocker(rdb)

		err := locker.WithDayLock(context.Background(), "2025-07-01", func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, rdb.setNXCalls)
	})

	t.Run("gives up after the acquire wait elapses", func(t *testing.T) {
		rdb := &fakeRedis{}
		locker := newTestLocker(rdb)

		err := locker.WithDayLock(context.Background(), "2025-07-01", func(ctx context.Context) error {
			t.Fatal("callback must not run without the lock")
			return nil
		})
		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.Greater(t, rdb.setNXCalls, 1)
	})

	t.Run("stops waiting when the context is cancelled", func(t *testing.T) {
		rdb := &fakeRedis{}
		locker := newTestLocker(rdb)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := locker.WithDayLock(ctx, "2025-07-01", func(ctx context.Context) error {
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("redis errors surface from acquire", func(t *testing.T) {
		rdb := &fakeRedis{setNXErr: errors.New("connection refused")}
		locker := newTestLocker(rdb)

		err := locker.WithDayLock(context.Background(), "2025-07-01", func(ctx context.Context) error {
			return nil
		})
		assert.ErrorContains(t, err, "acquire booking lock")
	})
}
