package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetRedisAddr())
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, "fixed_window", cfg.RateLimit.Algorithm)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "600")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.GetRedisAddr())
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Window)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RateLimit.Limit)
}
