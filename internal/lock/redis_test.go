package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAcquireAndRelease(t *testing.T) {
	mr, client := setupMiniredis(t)
	locker := NewRedisLocker(client, time.Second, 100*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"pi_123"))
	assert.Equal(t, time.Second, mr.TTL(keyPrefix+"pi_123"))

	release()
	assert.False(t, mr.Exists(keyPrefix+"pi_123"))
}

func TestAcquireBusy(t *testing.T) {
	_, client := setupMiniredis(t)
	locker := NewRedisLocker(client, time.Second, 120*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "pi_123")
	require.NoError(t, err)
	defer release()

	_, err = locker.Acquire(context.Background(), "pi_123")
	assert.ErrorIs(t, err, ErrLockBusy)

	other, err := locker.Acquire(context.Background(), "pi_456")
	require.NoError(t, err)
	other()
}

func TestAcquireWaitsForRelease(t *testing.T) {
	_, client := setupMiniredis(t)
	locker := NewRedisLocker(client, time.Second, 2*time.Second)

	release, err := locker.Acquire(context.Background(), "pi_123")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var secondErr error
	go func() {
		defer wg.Done()
		r, err := locker.Acquire(context.Background(), "pi_123")
		secondErr = err
		if err == nil {
			r()
		}
	}()

	time.Sleep(100 * time.Millisecond)
	release()
	wg.Wait()
	assert.NoError(t, secondErr)
}

func TestReleaseDoesNotDeleteForeignToken(t *testing.T) {
	mr, client := setupMiniredis(t)
	locker := NewRedisLocker(client, time.Second, 50*time.Millisecond)

	release, err := locker.Acquire(context.Background(), "pi_123")
	require.NoError(t, err)

	// The lock expired and someone else took it.
	require.NoError(t, mr.Set(keyPrefix+"pi_123", "someone-else"))
	release()

	got, err := mr.Get(keyPrefix + "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestAcquireHonoursContext(t *testing.T) {
	_, client := setupMiniredis(t)
	locker := NewRedisLocker(client, time.Second, 5*time.Second)

	release, err := locker.Acquire(context.Background(), "pi_123")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, "pi_123")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNoop(t *testing.T) {
	release, err := Noop{}.Acquire(context.Background(), "anything")
	require.NoError(t, err)
	release()
}
