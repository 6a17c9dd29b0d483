package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port          string
	Environment   string
	AllowedOrigin string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DSN string
}

type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	Algorithm string
}

func (r *RedisConfig) GetRedisAddr() string {
	return r.Host + ":" + r.Port
}

// Loads configuration from environment variables. DATABASE_URL is the only
// required value, everything else has a development default.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "3001"),
			Environment:   getEnv("ENVIRONMENT", "development"),
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN: dsn,
		},
		RateLimit: RateLimitConfig{
			Limit:     getEnvInt("RATE_LIMIT", 5),
			Window:    time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600)) * time.Second,
			Algorithm: getEnv("RATE_LIMIT_ALGORITHM", "fixed_window"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
