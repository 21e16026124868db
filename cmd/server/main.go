package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"grimoire/internal/character/handler"
	charactermetrics "grimoire/internal/character/metrics"
	"grimoire/internal/character/service"
	"grimoire/internal/platform/config"
	"grimoire/internal/platform/httpserver"
	"grimoire/internal/platform/logger"
	"grimoire/internal/platform/metrics"
	"grimoire/internal/platform/middleware"
	"grimoire/internal/platform/otel"
	"grimoire/internal/platform/redis"
	"grimoire/pkg/platform/httputil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("grimoire stopped", "error", err)
		os.Exit(1)
	}
}

// run wires the sheet app and, when EDGE_ADDR is set, the offline edge in
// front of it. Business logic lives in the internal packages.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	httpMetrics := metrics.New(reg)

	var redisClient *redis.Client
	if cfg.Storage.Driver == "redis" || cfg.Edge.Driver == "redis" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	durable, closeDurable, err := openDurable(ctx, cfg.Storage, redisClient)
	if err != nil {
		return err
	}
	defer closeDurable()

	sheet := service.New(durable,
		service.WithLogger(log),
		service.WithMetrics(charactermetrics.New(reg)),
		service.WithKey(cfg.Storage.Key),
	)
	sheet.Load(ctx)

	app := newRouter(log, httpMetrics.ForServer("app"))
	app.Get("/healthz", healthz(redisClient))
	app.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.New(sheet, log).Register(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(cfg.Server.Addr, app), log, "app")
	})

	if cfg.Edge.Addr != "" {
		proxy, err := newEdge(cfg, redisClient, reg, httpMetrics, log)
		if err != nil {
			return err
		}
		defer proxy.registration.Wait()

		g.Go(func() error {
			proxy.start(gctx, httpMetrics)
			return nil
		})

		router := newRouter(log, httpMetrics.ForServer("edge"))
		proxy.admin.Register(router)
		router.Handle("/*", proxy.registration)
		g.Go(func() error {
			return httpserver.Run(gctx, httpserver.New(cfg.Edge.Addr, router), log, "edge")
		})
	}

	return g.Wait()
}

func newRouter(log *slog.Logger, latency prometheus.ObserverVec) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(latency))
	return r
}

func healthz(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
