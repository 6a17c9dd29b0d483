package ratelimit

import (
	"time"
)

// NewLimiter selects a strategy by name. Anything unrecognized falls back to
// the fixed window, which is the documented contact-form behavior.
func NewLimiter(store Store, algorithm string, limit int, window time.Duration) Limiter {
	switch algorithm {
	case "token_bucket":
		refillRate := limit / int(window.Seconds())
		if refillRate == 0 {
			refillRate = 1
		}
		return NewTokenBucket(store, limit, refillRate)
	case "fixed_window":
		return NewFixedWindow(store, limit, window)
	default:
		return NewFixedWindow(store, limit, window)
	}
}
