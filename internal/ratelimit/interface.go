package ratelimit

import (
	"context"
	"time"
)

type Limiter interface {
	// Allow records one hit for key and reports whether the request may
	// proceed. A denied hit still counts toward the current window.
	Allow(ctx context.Context, key string) (bool, error)

	Remaining(ctx context.Context, key string) (int, error)

	Limit() int

	Window() time.Duration

	Reset(ctx context.Context, key string) (time.Time, error)
}

// Store is the subset of the redis client the limiters need. Kept small so
// tests can substitute an in-memory fake.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
