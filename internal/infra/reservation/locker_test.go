package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

func newLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisLocker(rdb, 10*time.Second, nil, logger.Nop()).WithWait(0, time.Millisecond), mr
}

func TestRedisLocker_AcquireRelease(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	release, err := locker.Acquire(ctx, date, types.MustTimeString("10:00"))
	require.NoError(t, err)

	key := Key(date, types.MustTimeString("10:00"))
	assert.Equal(t, "grooming:slot-hold:2026-03-02:10:00", key)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Second, mr.TTL(key))

	// тот же слот занят
	_, err = locker.Acquire(ctx, date, types.MustTimeString("10:00"))
	assert.ErrorIs(t, err, ErrSlotHeld)

	// другой слот свободен
	otherRelease, err := locker.Acquire(ctx, date, types.MustTimeString("10:30"))
	require.NoError(t, err)
	require.NoError(t, otherRelease(ctx))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))

	release, err = locker.Acquire(ctx, date, types.MustTimeString("10:00"))
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}

func TestRedisLocker_ReleaseDoesNotStealForeignHold(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	key := Key(date, types.MustTimeString("11:00"))

	release, err := locker.Acquire(ctx, date, types.MustTimeString("11:00"))
	require.NoError(t, err)

	// удержание истекло и слот занял другой запрос
	mr.FastForward(11 * time.Second)
	require.NoError(t, mr.Set(key, "someone-else"))

	require.NoError(t, release(ctx))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_Unavailable(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Close()

	_, err := locker.Acquire(context.Background(), time.Now(), types.MustTimeString("09:00"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNoopLocker(t *testing.T) {
	release, err := NoopLocker{}.Acquire(context.Background(), time.Now(), types.MustTimeString("09:00"))
	require.NoError(t, err)
	assert.NoError(t, release(context.Background()))
}
