package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_TYPE", "DB_PATH", "TOKEN_TTL", "REDIS_DB", "RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "./verbclash.db", cfg.DatabasePath)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 120, cfg.RateLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 120, cfg.RateLimit, "unparseable values fall back to the default")
}
