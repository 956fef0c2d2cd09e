package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("RATE_LIMIT_RPS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, AuthModeMock, cfg.AuthMode)
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRedisBackendRequiresAddresses(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)

	t.Setenv("REDIS_DB", "nope")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownModes(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "filesystem")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("AUTH_MODE", "ldap")
	_, err = Load()
	require.Error(t, err)
}
