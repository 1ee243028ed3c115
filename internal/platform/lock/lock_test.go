package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryKey(t *testing.T) {
	assert.Equal(t, "inventory:1:7", InventoryKey(1, 7))
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedUnique([]string{"c", "a", "b", "a"}))
}

func TestLocalSerialisesSameKey(t *testing.T) {
	l := NewLocal()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), InventoryKey(1, 7))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.locks)
}

func TestLocalTimesOutWhileHeld(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background(), "a", "b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "b")
	assert.True(t, errors.Is(err, apperr.ErrLockTimeout))

	release()
	release()

	again, err := l.Acquire(context.Background(), "b", "a")
	require.NoError(t, err)
	again()
	assert.Empty(t, l.locks)
}

func TestLocalDistinctKeysDoNotBlock(t *testing.T) {
	l := NewLocal()
	first, err := l.Acquire(context.Background(), InventoryKey(1, 1))
	require.NoError(t, err)
	defer first()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	second, err := l.Acquire(ctx, InventoryKey(1, 2))
	require.NoError(t, err)
	second()
}

type countingRefresher struct {
	mu    sync.Mutex
	calls int
	ttl   time.Duration
	err   error
}

func (c *countingRefresher) Refresh(_ context.Context, ttl time.Duration, _ *redislock.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.ttl = ttl
	return c.err
}

func (c *countingRefresher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestKeepAliveRefreshesUntilStopped(t *testing.T) {
	a, b := &countingRefresher{}, &countingRefresher{}
	stop := keepAlive(5*time.Millisecond, time.Second, []refresher{a, b})

	require.Eventually(t, func() bool { return a.count() >= 3 && b.count() >= 3 },
		time.Second, time.Millisecond)
	stop()

	after := a.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, a.count())
	assert.Equal(t, time.Second, a.ttl)
}

func TestKeepAliveStopsAfterFailedRefresh(t *testing.T) {
	lost := &countingRefresher{err: redislock.ErrNotObtained}
	stop := keepAlive(5*time.Millisecond, time.Second, []refresher{lost})

	require.Eventually(t, func() bool { return lost.count() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, lost.count())
	stop()
}

func TestKeepAliveNoLocksIsNoop(t *testing.T) {
	stop := keepAlive(time.Millisecond, time.Second, nil)
	stop()
	stop = keepAlive(0, time.Second, []refresher{&countingRefresher{}})
	stop()
}
