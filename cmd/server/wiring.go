package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"grimoire/internal/assetcache"
	cachemetrics "grimoire/internal/assetcache/metrics"
	cachestore "grimoire/internal/assetcache/store"
	"grimoire/internal/character/service"
	"grimoire/internal/character/store/durable"
	"grimoire/internal/platform/config"
	"grimoire/internal/platform/metrics"
	"grimoire/internal/platform/postgres"
	"grimoire/internal/platform/redis"
	"grimoire/internal/platform/sqlite"
)

const (
	readyPollInterval = 200 * time.Millisecond
	readyTimeout      = 10 * time.Second
)

// openDurable selects the storage backend of the character document. The
// returned close func is always safe to call.
func openDurable(ctx context.Context, cfg config.Storage, redisClient *redis.Client) (service.Durable, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "memory":
		return durable.NewInMemory(), noop, nil

	case "redis":
		return durable.NewRedis(redisClient.Client), noop, nil

	case "sqlite", "postgres":
		var (
			db  *sql.DB
			err error
		)
		if cfg.Driver == "sqlite" {
			db, err = sqlite.Open(ctx, cfg.SQLitePath)
		} else {
			db, err = postgres.Open(ctx, cfg.DatabaseURL)
		}
		if err != nil {
			return nil, noop, err
		}
		closeDB := func() { _ = db.Close() }

		var store *durable.SQL
		if cfg.Driver == "sqlite" {
			store, err = durable.NewSQLite(ctx, db)
		} else {
			store, err = durable.NewPostgres(ctx, db)
		}
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		return store, closeDB, nil
	}
	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

type edge struct {
	controller   *assetcache.Controller
	registration *assetcache.Registration
	admin        *assetcache.Admin
	origin       string
	network      *http.Client
	logger       *slog.Logger
}

func newEdge(cfg config.Config, redisClient *redis.Client, reg prometheus.Registerer, m *metrics.Metrics, log *slog.Logger) (*edge, error) {
	origin := cfg.Edge.OriginURL
	if origin == "" {
		origin = localOrigin(cfg.Server.Addr)
	}

	var buckets assetcache.BucketStore = cachestore.NewInMemoryBucketStore()
	if cfg.Edge.Driver == "redis" {
		buckets = cachestore.NewRedisBucketStore(redisClient.Client)
	}

	// no timeout: a slow origin is waited on, an unreachable one fails fast
	network := &http.Client{}
	cacheMetrics := cachemetrics.New(reg)

	build := func(version string, skipWaiting bool) (*assetcache.Controller, error) {
		return assetcache.New(assetcache.Config{
			Version:     version,
			Origin:      origin,
			Manifest:    cfg.Edge.Manifest,
			Critical:    cfg.Edge.Critical,
			SkipWaiting: skipWaiting,
		}, buckets, network,
			assetcache.WithLogger(log),
			assetcache.WithMetrics(cacheMetrics),
		)
	}

	controller, err := build(cfg.Edge.Version, cfg.Edge.SkipWaiting)
	if err != nil {
		return nil, fmt.Errorf("create cache controller: %w", err)
	}

	registration, err := assetcache.NewRegistration(origin, network, log)
	if err != nil {
		return nil, fmt.Errorf("create cache registration: %w", err)
	}
	return &edge{
		controller:   controller,
		registration: registration,
		admin:        assetcache.NewAdmin(registration, build, log, m.SetCacheVersion),
		origin:       origin,
		network:      network,
		logger:       log,
	}, nil
}

// start waits for the origin to answer, then installs and registers the
// controller. Until then the registration passes requests straight through.
// An origin that never answers still gets a controller, with an empty cache.
func (e *edge) start(ctx context.Context, m *metrics.Metrics) {
	waitCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	err := e.waitForOrigin(waitCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		e.logger.WarnContext(ctx, "origin not reachable, installing anyway", "origin", e.origin, "error", err)
	}
	e.registration.Register(ctx, e.controller)
	if active := e.registration.Active(); active != nil {
		m.SetCacheVersion(active.Version())
	}
}

func (e *edge) waitForOrigin(ctx context.Context) error {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.origin, nil)
		if err != nil {
			return err
		}
		if resp, err := e.network.Do(req); err == nil {
			_ = resp.Body.Close()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// localOrigin points the edge at the app server of this process.
func localOrigin(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
