package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "fichaKael", cfg.Storage.Key)
	assert.Equal(t, "grimorio-kael-v1", cfg.Edge.Version)
	assert.True(t, cfg.Edge.SkipWaiting)
	assert.Equal(t, []string{"./", "./index.html", "./script.js", "./style.css", "./manifest.json"}, cfg.Edge.Manifest)
	assert.Equal(t, []string{"./index.html", "./script.js", "./style.css"}, cfg.Edge.Critical)
	assert.Empty(t, cfg.Edge.Addr)
}

func TestFromEnvValidation(t *testing.T) {
	t.Run("postgres requires a database url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := FromEnv()
		require.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("redis cache requires a redis url", func(t *testing.T) {
		t.Setenv("CACHE_DRIVER", "redis")
		_, err := FromEnv()
		require.ErrorContains(t, err, "REDIS_URL")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "floppy")
		_, err := FromEnv()
		require.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("overrides are read", func(t *testing.T) {
		t.Setenv("CACHE_VERSION", "grimorio-kael-v2")
		t.Setenv("CACHE_SKIP_WAITING", "false")
		t.Setenv("EDGE_ADDR", ":8081")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "grimorio-kael-v2", cfg.Edge.Version)
		assert.False(t, cfg.Edge.SkipWaiting)
		assert.Equal(t, ":8081", cfg.Edge.Addr)
	})
}

func TestFromEnvCleansManifest(t *testing.T) {
	t.Setenv("CACHE_MANIFEST", " ./ ,./index.html,,./index.html")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"./", "./index.html"}, cfg.Edge.Manifest)
}
