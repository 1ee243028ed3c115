// Package lock serialises inventory mutations per (store, bean).
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/georgemunganga/coffee-tracker/internal/apperr"
	"github.com/redis/go-redis/v9"
)

// Locker acquires every key or none. The returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// InventoryKey names the lock guarding one inventory row.
func InventoryKey(storeID, beanID int64) string {
	return fmt.Sprintf("inventory:%d:%d", storeID, beanID)
}

// sortedUnique orders keys so that concurrent callers lock in the same order.
func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── in-process ───────────────────────────────────────────────────────────────

type entry struct {
	ch   chan struct{}
	refs int
}

// Local is a keyed mutex for single-replica deployments and tests.
type Local struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewLocal() *Local { return &Local{locks: make(map[string]*entry)} }

func (l *Local) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = sortedUnique(keys)
	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.lock(ctx, k); err != nil {
			l.unlock(held)
			return nil, err
		}
		held = append(held, k)
	}
	var once sync.Once
	return func() { once.Do(func() { l.unlock(held) }) }, nil
}

func (l *Local) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, false)
		return fmt.Errorf("%w: %v", apperr.ErrLockTimeout, ctx.Err())
	}
}

func (l *Local) unlock(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.release(keys[i], true)
	}
}

func (l *Local) release(key string, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[key]
	if held {
		<-e.ch
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// ── redis ────────────────────────────────────────────────────────────────────

// Redis coordinates replicas through redislock. Held keys are refreshed every
// ttl/2 until released, so a key outlives ttl only while its holder is alive.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: redislock.New(rdb), ttl: ttl, retry: 50 * time.Millisecond}
}

func (r *Redis) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = sortedUnique(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			_ = held[i].Release(context.Background())
		}
	}

	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(r.retry)}
	for _, k := range keys {
		obtainCtx, cancel := context.WithTimeout(ctx, r.ttl)
		lk, err := r.client.Obtain(obtainCtx, "coffee:"+k, r.ttl, opts)
		cancel()
		if err != nil {
			releaseAll()
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", apperr.ErrLockTimeout, k)
			}
			return nil, fmt.Errorf("obtain lock %s: %w", k, err)
		}
		held = append(held, lk)
	}

	refreshers := make([]refresher, len(held))
	for i, lk := range held {
		refreshers[i] = lk
	}
	stop := keepAlive(r.ttl/2, r.ttl, refreshers)

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			releaseAll()
		})
	}, nil
}

type refresher interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
}

// keepAlive extends every lock to ttl each interval until the returned stop
// func is called or a refresh fails. stop waits for the loop to exit.
func keepAlive(interval, ttl time.Duration, locks []refresher) (stop func()) {
	if interval <= 0 || len(locks) == 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				for _, lk := range locks {
					ctx, cancel := context.WithTimeout(context.Background(), interval)
					err := lk.Refresh(ctx, ttl, nil)
					cancel()
					if err != nil {
						// Lost to expiry; the row lock in Postgres still guards the write.
						return
					}
				}
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
