package assetcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"grimoire/internal/assetcache/metrics"
	"grimoire/internal/assetcache/models"
)

// Fetcher performs upstream requests. *http.Client satisfies it.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// BucketStore holds named buckets of stored responses.
type BucketStore interface {
	Open(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket string, entry models.Entry) error
	PutAll(ctx context.Context, bucket string, entries []models.Entry) error
	Match(ctx context.Context, bucket, url string) (models.Entry, error)
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, bucket string) error
}

// Config describes one controller version.
type Config struct {
	// Version names the only bucket this controller reads and writes.
	Version string
	// Origin is the absolute base URL treated as same-origin.
	Origin string
	// Manifest lists assets precached at install, relative to Origin.
	Manifest []string
	// Critical is the subset retried one by one when the manifest fails.
	Critical    []string
	SkipWaiting bool
}

// Controller intercepts requests for one origin and answers them from the
// network or from its versioned bucket.
type Controller struct {
	cfg     Config
	origin  *url.URL
	buckets BucketStore
	network Fetcher

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time

	state atomic.Value // models.State

	// storeMu orders pending.Add against retire so no write starts after
	// the controller is retired.
	storeMu sync.Mutex
	pending sync.WaitGroup
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Controller) {
		c.tracer = tp.Tracer(tracerName)
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

const tracerName = "grimoire/internal/assetcache"

// New builds a controller in the parsed state.
func New(cfg Config, buckets BucketStore, network Fetcher, opts ...Option) (*Controller, error) {
	if cfg.Version == "" {
		return nil, errors.New("cache version is required")
	}
	origin, err := parseOrigin(cfg.Origin)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		origin:  origin,
		buckets: buckets,
		network: network,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Store(models.StateParsed)
	return c, nil
}

func parseOrigin(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment = "", ""
	return u, nil
}

func (c *Controller) Version() string {
	return c.cfg.Version
}

func (c *Controller) State() models.State {
	return c.state.Load().(models.State)
}

func (c *Controller) setState(s models.State) {
	c.state.Store(s)
}

// Install precaches the manifest into the version bucket. The manifest is
// stored all-or-nothing; when any asset fails the critical assets are added
// one by one instead. Failures are logged and never abort the install.
func (c *Controller) Install(ctx context.Context) {
	c.setState(models.StateInstalling)
	defer c.setState(models.StateInstalled)

	if err := c.buckets.Open(ctx, c.cfg.Version); err != nil {
		c.logger.ErrorContext(ctx, "failed to open cache bucket", "version", c.cfg.Version, "error", err)
		c.metrics.IncrementInstall(models.InstallFailed)
		return
	}

	err := c.addAll(ctx, c.cfg.Manifest)
	if err == nil {
		c.logger.InfoContext(ctx, "precached manifest", "version", c.cfg.Version, "assets", len(c.cfg.Manifest))
		c.metrics.IncrementInstall(models.InstallComplete)
		return
	}
	c.logger.WarnContext(ctx, "manifest precache failed, adding critical assets individually",
		"version", c.cfg.Version,
		"error", err,
	)

	if stored := c.addEach(ctx, c.cfg.Critical); stored == 0 {
		c.logger.ErrorContext(ctx, "precache failed, cache starts empty", "version", c.cfg.Version)
		c.metrics.IncrementInstall(models.InstallFailed)
		return
	}
	c.metrics.IncrementInstall(models.InstallPartial)
}

func (c *Controller) addAll(ctx context.Context, refs []string) error {
	entries := make([]models.Entry, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			e, err := c.fetchEntry(gctx, c.resolve(ref))
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return c.buckets.PutAll(ctx, c.cfg.Version, entries)
}

// addEach adds refs independently and returns how many were stored.
func (c *Controller) addEach(ctx context.Context, refs []string) int {
	var stored atomic.Int32
	var g errgroup.Group
	for _, ref := range refs {
		g.Go(func() error {
			target := c.resolve(ref)
			e, err := c.fetchEntry(ctx, target)
			if err == nil {
				err = c.buckets.Put(ctx, c.cfg.Version, e)
			}
			if err != nil {
				c.logger.WarnContext(ctx, "failed to precache asset", "url", target, "error", err)
				return nil
			}
			stored.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(stored.Load())
}

func (c *Controller) fetchEntry(ctx context.Context, target string) (models.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return models.Entry{}, fmt.Errorf("build request for %s: %w", target, err)
	}
	resp, err := c.network.Do(req)
	if err != nil {
		return models.Entry{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Entry{}, fmt.Errorf("read %s: %w", target, err)
	}
	if !successful(resp.StatusCode) {
		return models.Entry{}, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}
	return models.Entry{
		URL:      target,
		Status:   resp.StatusCode,
		Header:   endToEnd(resp.Header),
		Body:     body,
		StoredAt: c.now(),
	}, nil
}

// Activate deletes every bucket except the current version.
func (c *Controller) Activate(ctx context.Context) error {
	c.setState(models.StateActivating)
	defer c.setState(models.StateActivated)

	names, err := c.buckets.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}

	var g errgroup.Group
	for _, name := range names {
		if name == c.cfg.Version {
			continue
		}
		g.Go(func() error {
			if err := c.buckets.Delete(ctx, name); err != nil {
				return fmt.Errorf("delete bucket %s: %w", name, err)
			}
			c.metrics.IncrementBucketsDeleted()
			c.logger.InfoContext(ctx, "deleted stale cache bucket", "bucket", name, "version", c.cfg.Version)
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until background bucket writes have finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// retire marks c redundant and blocks until its in-flight bucket writes are
// done. A retired controller never writes to its bucket again.
func (c *Controller) retire() {
	c.storeMu.Lock()
	c.setState(models.StateRedundant)
	c.storeMu.Unlock()
	c.pending.Wait()
}

func (c *Controller) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return c.origin.String()
	}
	return c.origin.ResolveReference(u).String()
}

func successful(status int) bool {
	return status >= 200 && status < 300
}
