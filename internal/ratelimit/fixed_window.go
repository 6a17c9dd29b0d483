package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter counts hits per key in a window anchored to the first
// hit: the counter is created with count=1 and expires window seconds later.
// This is not a wall-clock-aligned window.
type FixedWindowLimiter struct {
	store  Store
	limit  int
	window time.Duration
}

func NewFixedWindow(store Store, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (f *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("contact_rl:%s", key)

	count, err := f.store.Incr(ctx, redisKey)
	if err != nil {
		return false, err
	}

	// First hit of a fresh window - anchor the expiry here. Incr and Expire
	// are two calls, so a crash in between leaves a counter that outlives
	// the window; that only over-limits, never under-limits.
	if count == 1 {
		if err := f.store.Expire(ctx, redisKey, f.window); err != nil {
			return false, err
		}
	}

	return count <= int64(f.limit), nil
}

func (f *FixedWindowLimiter) Remaining(ctx context.Context, key string) (int, error) {
	redisKey := fmt.Sprintf("contact_rl:%s", key)

	val, err := f.store.Get(ctx, redisKey)
	if err == redis.Nil {
		return f.limit, nil
	}

	if err != nil {
		return 0, err
	}

	count, _ := strconv.Atoi(val)
	remaining := f.limit - count

	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}

func (f *FixedWindowLimiter) Limit() int {
	return f.limit
}

func (f *FixedWindowLimiter) Window() time.Duration {
	return f.window
}

// Returns the time at which the current window lapses for key. With no live
// counter the window would reset immediately.
func (f *FixedWindowLimiter) Reset(ctx context.Context, key string) (time.Time, error) {
	redisKey := fmt.Sprintf("contact_rl:%s", key)

	ttl, err := f.store.TTL(ctx, redisKey)
	if err != nil {
		return time.Time{}, err
	}

	if ttl < 0 {
		return time.Now(), nil
	}

	return time.Now().Add(ttl), nil
}
