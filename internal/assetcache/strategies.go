package assetcache

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"grimoire/internal/assetcache/models"
	"grimoire/pkg/platform/sentinel"
)

// ServeHTTP classifies the request once and answers it with the matching strategy.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := upstreamRequest(c.origin, r)
	if err != nil {
		c.logger.WarnContext(r.Context(), "cannot build upstream request", "url", r.URL.String(), "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	class := Classify(c.origin, req)
	strategy := StrategyFor(class)

	ctx, span := c.tracer.Start(r.Context(), "assetcache."+string(strategy),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("assetcache.class", string(class)),
			attribute.String("assetcache.version", c.cfg.Version),
			attribute.String("url.full", req.URL.String()),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)

	var resp *response
	switch strategy {
	case models.StrategyNetworkFirst:
		resp = c.networkFirst(ctx, req, class)
	case models.StrategyCacheFirst:
		resp = c.cacheFirst(ctx, req, class)
	default:
		resp = c.bypass(ctx, req, class)
	}

	span.SetAttributes(
		attribute.String("assetcache.source", string(resp.source)),
		attribute.Int("http.response.status_code", resp.status),
	)
	c.metrics.IncrementRequest(string(class), string(strategy), string(resp.source))
	resp.write(w)
}

// bypass goes straight to the network without touching the bucket.
func (c *Controller) bypass(ctx context.Context, req *http.Request, class models.Class) *response {
	resp, err := fetch(c.network, req, models.SourceBypass)
	if err != nil {
		c.networkFailed(ctx, req, class, err)
		return offline()
	}
	return resp
}

// networkFirst returns the live response and refreshes the bucket in the
// background; the bucket is only consulted when the network fails.
func (c *Controller) networkFirst(ctx context.Context, req *http.Request, class models.Class) *response {
	resp, err := fetch(c.network, req, models.SourceNetwork)
	if err == nil {
		if successful(resp.status) {
			c.storeAsync(ctx, resp.entry(req.URL.String()))
		}
		return resp
	}
	c.networkFailed(ctx, req, class, err)

	if cached, ok := c.match(ctx, req.URL.String()); ok {
		return fromEntry(cached)
	}
	return offline()
}

// cacheFirst serves the bucket copy when there is one and falls back to
// the network, storing successful responses.
func (c *Controller) cacheFirst(ctx context.Context, req *http.Request, class models.Class) *response {
	if cached, ok := c.match(ctx, req.URL.String()); ok {
		return fromEntry(cached)
	}

	resp, err := fetch(c.network, req, models.SourceNetwork)
	if err != nil {
		c.networkFailed(ctx, req, class, err)
		return offline()
	}
	if successful(resp.status) {
		c.storeAsync(ctx, resp.entry(req.URL.String()))
	}
	return resp
}

func (c *Controller) match(ctx context.Context, target string) (models.Entry, bool) {
	e, err := c.buckets.Match(ctx, c.cfg.Version, target)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "cache lookup failed", "url", target, "error", err)
		}
		return models.Entry{}, false
	}
	return e, true
}

// storeAsync writes e to the bucket without delaying the response.
// Concurrent writes to the same URL are last-write-wins. Nothing is written
// once the controller is redundant, since its bucket may already be gone.
func (c *Controller) storeAsync(ctx context.Context, e models.Entry) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	if c.State() == models.StateRedundant {
		return
	}

	e.StoredAt = c.now()
	ctx = context.WithoutCancel(ctx)
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if c.State() == models.StateRedundant {
			return
		}
		err := c.buckets.Put(ctx, c.cfg.Version, e)
		c.metrics.IncrementBucketWrite(err)
		if err != nil {
			c.logger.WarnContext(ctx, "failed to store response", "url", e.URL, "error", err)
		}
	}()
}

func (c *Controller) networkFailed(ctx context.Context, req *http.Request, class models.Class, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, "network unavailable")
	c.metrics.IncrementNetworkFailure(string(class))
	c.logger.DebugContext(ctx, "network fetch failed", "url", req.URL.String(), "class", string(class), "error", err)
}
