package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "GameWallet", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.NATS.URL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://wallet:secret@db:5432/wallet")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("NATS_URL", "nats://broker:4222")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "postgres://wallet:secret@db:5432/wallet", cfg.Database.URL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
}

func TestMongoURIAliasBindsStoreURL(t *testing.T) {
	// Deployment manifests written for the Mongo-backed service keep working:
	// the alias feeds the store connection string.
	t.Setenv("MONGODB_URI", "postgres://legacy:secret@db:5432/wallet")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://legacy:secret@db:5432/wallet", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		cfg := Development()
		cfg.Database.URL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := Development()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())

		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad rate limit", func(t *testing.T) {
		cfg := Development()
		cfg.RateLimit.Requests = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("development config is valid", func(t *testing.T) {
		assert.NoError(t, Development().Validate())
	})
}
