package lock

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func exerciseLocker(t *testing.T, locker Locker, key string) {
	t.Helper()

	var (
		wg      sync.WaitGroup
		holders atomic.Int32
		maxSeen atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), key)
			if !assert.NoError(t, err) {
				return
			}
			n := holders.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			holders.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestLocal_Exclusive(t *testing.T) {
	exerciseLocker(t, NewLocal(), DomainKey(1))
}

func TestLocal_IndependentKeys(t *testing.T) {
	locker := NewLocal()

	unlock, err := locker.Lock(context.Background(), DomainKey(1))
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := locker.Lock(ctx, DomainKey(2))
	require.NoError(t, err)
	other()
}

func TestLocal_ContextDone(t *testing.T) {
	locker := NewLocal()

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, ErrNotAcquired)

	unlock()
	unlock()

	again, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
	assert.Empty(t, locker.(*keyedMutex).locks)
}

func TestRedis_Exclusive(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	locker, closeFn, err := Open(url)
	require.NoError(t, err)
	defer func() {
		_ = closeFn()
	}()

	exerciseLocker(t, locker, DomainKey(uint(time.Now().UnixNano()%100000)))
}

func TestOpen_Local(t *testing.T) {
	locker, closeFn, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &keyedMutex{}, locker)
	assert.NoError(t, closeFn())

	_, _, err = Open("://bad")
	assert.Error(t, err)
}
