package assetcache

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"grimoire/internal/assetcache/models"
)

// ErrNothingWaiting is returned by Promote when no controller is waiting.
var ErrNothingWaiting = errors.New("no waiting controller")

// Registration tracks which controller handles requests. A newly registered
// controller installs, then either takes over at once or waits for Promote.
type Registration struct {
	mu      sync.RWMutex
	active  *Controller
	waiting *Controller

	origin  *url.URL
	network Fetcher
	logger  *slog.Logger
}

// NewRegistration creates a registration for origin. Until a controller is
// active, requests go straight to network.
func NewRegistration(origin string, network Fetcher, logger *slog.Logger) (*Registration, error) {
	u, err := parseOrigin(origin)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registration{origin: u, network: network, logger: logger}, nil
}

// Register installs c. It becomes active when nothing is active yet or when
// it skips waiting; otherwise it waits, replacing any earlier waiting one.
func (r *Registration) Register(ctx context.Context, c *Controller) {
	c.Install(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || c.cfg.SkipWaiting {
		if r.waiting != nil && r.waiting != c {
			r.waiting.retire()
			r.waiting = nil
		}
		r.activateLocked(ctx, c)
		return
	}

	if r.waiting != nil {
		r.waiting.retire()
	}
	r.waiting = c
	r.logger.InfoContext(ctx, "cache controller waiting", "version", c.Version(), "active", r.active.Version())
}

// Promote activates the waiting controller.
func (r *Registration) Promote(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.waiting == nil {
		return ErrNothingWaiting
	}
	c := r.waiting
	r.waiting = nil
	r.activateLocked(ctx, c)
	return nil
}

// activateLocked retires the active controller before c deletes the other
// buckets, so a late write from the old version cannot recreate its bucket.
func (r *Registration) activateLocked(ctx context.Context, c *Controller) {
	if prev := r.active; prev != nil && prev != c {
		prev.retire()
	}
	if err := c.Activate(ctx); err != nil {
		r.logger.WarnContext(ctx, "stale bucket cleanup incomplete", "version", c.Version(), "error", err)
	}
	r.active = c
	r.logger.InfoContext(ctx, "cache controller active", "version", c.Version())
}

// Wait blocks until the bucket writes of the active controller are done.
func (r *Registration) Wait() {
	if c := r.Active(); c != nil {
		c.Wait()
	}
}

func (r *Registration) Active() *Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registration) Waiting() *Controller {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.waiting
}

// ServeHTTP hands the request to the active controller, or passes it to the
// network untouched when there is none.
func (r *Registration) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if c := r.Active(); c != nil {
		c.ServeHTTP(w, req)
		return
	}

	out, err := upstreamRequest(r.origin, req)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	resp, err := fetch(r.network, out, models.SourceBypass)
	if err != nil {
		r.logger.WarnContext(req.Context(), "upstream unavailable", "url", out.URL.String(), "error", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	resp.header.Del(SourceHeader)
	h := w.Header()
	for k, vs := range resp.header {
		h[k] = vs
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}
