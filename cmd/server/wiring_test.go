package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimoire/internal/platform/config"
	"grimoire/internal/platform/logger"
	"grimoire/internal/platform/metrics"
)

func TestLocalOrigin(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", localOrigin(":8080"))
	assert.Equal(t, "http://localhost:8080/", localOrigin("0.0.0.0:8080"))
	assert.Equal(t, "http://127.0.0.1:9000/", localOrigin("127.0.0.1:9000"))
}

func TestOpenDurable(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := openDurable(ctx, config.Storage{Driver: "memory"}, nil)
		require.NoError(t, err)
		defer closeFn()
		require.NoError(t, store.SetItem(ctx, "fichaKael", []byte(`{}`)))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := t.TempDir() + "/grimoire.db"
		store, closeFn, err := openDurable(ctx, config.Storage{Driver: "sqlite", SQLitePath: path}, nil)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.SetItem(ctx, "fichaKael", []byte(`{"notes":"x"}`)))
		got, err := store.GetItem(ctx, "fichaKael")
		require.NoError(t, err)
		assert.JSONEq(t, `{"notes":"x"}`, string(got))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, closeFn, err := openDurable(ctx, config.Storage{Driver: "floppy"}, nil)
		require.Error(t, err)
		closeFn()
	})
}

func TestNewEdge(t *testing.T) {
	cfg := config.Config{
		Server: config.Server{Addr: ":8080"},
		Edge:   config.Edge{Version: "v1", Driver: "memory", Manifest: []string{"./"}},
	}
	reg := prometheus.NewRegistry()
	proxy, err := newEdge(cfg, nil, reg, metrics.New(reg), logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/", proxy.origin)
	assert.Equal(t, "v1", proxy.controller.Version())
	assert.Nil(t, proxy.registration.Active(), "nothing is registered before start")

	r := chi.NewRouter()
	proxy.admin.Register(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/_edge/status", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"active":null,"waiting":null}`, rr.Body.String())
}
