package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "tawseel", cfg.Database.DBName)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5*time.Minute, cfg.Redis.UserCacheTTL)
	assert.Equal(t, EventsBackendMemory, cfg.Events.Backend)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("USER_CACHE_TTL", "90s")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Redis.UserCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown store", mutate: func(c *Config) { c.Store.Backend = "mongo" }},
		{name: "unknown events backend", mutate: func(c *Config) { c.Events.Backend = "kafka" }},
		{name: "redis events without redis", mutate: func(c *Config) {
			c.Events.Backend = EventsBackendRedis
			c.Redis.Enabled = false
		}},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
