package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimoire/internal/platform/config"
	"grimoire/pkg/platform/sentinel"
)

func TestOptions(t *testing.T) {
	t.Run("settings override the url defaults", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:          "redis://cache.internal:6380/2",
			PoolSize:     4,
			MinIdleConns: 2,
			DialTimeout:  time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		require.NoError(t, err)

		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, clientName, opts.ClientName)
		assert.Equal(t, 4, opts.PoolSize)
		assert.Equal(t, 2, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.DialTimeout)
		assert.Equal(t, 2*time.Second, opts.ReadTimeout)
		assert.Equal(t, 3*time.Second, opts.WriteTimeout)
	})

	t.Run("zero settings keep the url values", func(t *testing.T) {
		opts, err := options(config.RedisConfig{URL: "redis://localhost:6379/0?dial_timeout=7s&pool_size=9"})
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, opts.DialTimeout)
		assert.Equal(t, 9, opts.PoolSize)
	})

	t.Run("empty url", func(t *testing.T) {
		_, err := options(config.RedisConfig{})
		require.Error(t, err)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://localhost"})
		require.Error(t, err)
	})
}

func TestNewUnreachableServer(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 200 * time.Millisecond,
	})
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}
