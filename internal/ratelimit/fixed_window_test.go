package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counts      map[string]int64
	ttls        map[string]time.Duration
	expireCalls int
	incrErr     error
	expireErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts: make(map[string]int64),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeStore) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	f.expireCalls++
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, ok := f.ttls[key]
	if !ok {
		return -2 * time.Second, nil
	}
	return ttl, nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	count, ok := f.counts[key]
	if !ok {
		return "", redis.Nil
	}
	return strconv.FormatInt(count, 10), nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

// Simulates the window lapsing for a key
func (f *fakeStore) expireNow(key string) {
	delete(f.counts, key)
	delete(f.ttls, key)
}

func TestFixedWindow_AllowsUpToLimit(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d should be allowed", i)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed, "6th hit should be denied")
}

func TestFixedWindow_DenialStillCounts(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		limiter.Allow(ctx, "1.2.3.4")
	}

	assert.Equal(t, int64(8), store.counts["contact_rl:1.2.3.4"])
}

func TestFixedWindow_ExpirySetOnlyOnFirstHit(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.expireCalls)
	assert.Equal(t, time.Hour, store.ttls["contact_rl:1.2.3.4"])
}

func TestFixedWindow_FreshWindowAfterExpiry(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.Allow(ctx, "1.2.3.4")
	}

	store.expireNow("contact_rl:1.2.3.4")

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed, "first hit of a fresh window should be allowed")
	assert.Equal(t, 2, store.expireCalls, "fresh window should re-anchor the expiry")
}

func TestFixedWindow_KeysAreIndependent(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		limiter.Allow(ctx, "1.2.3.4")
	}

	allowed, err := limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFixedWindow_StoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.incrErr = errors.New("connection refused")
	limiter := NewFixedWindow(store, 5, time.Hour)

	_, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)
}

func TestFixedWindow_ExpireErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.expireErr = errors.New("connection reset")
	limiter := NewFixedWindow(store, 5, time.Hour)

	_, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)
}

func TestFixedWindow_Remaining(t *testing.T) {
	store := newFakeStore()
	limiter := NewFixedWindow(store, 5, time.Hour)
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	for i := 0; i < 7; i++ {
		limiter.Allow(ctx, "1.2.3.4")
	}

	remaining, err = limiter.Remaining(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining, "remaining never goes negative")
}

func TestNewLimiter_DefaultsToFixedWindow(t *testing.T) {
	store := newFakeStore()

	limiter := NewLimiter(store, "something_else", 5, time.Hour)
	_, ok := limiter.(*FixedWindowLimiter)
	assert.True(t, ok)

	limiter = NewLimiter(store, "token_bucket", 5, time.Hour)
	_, ok = limiter.(*TokenBucket)
	assert.True(t, ok)
}
