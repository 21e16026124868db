package assetcache

//go:generate mockgen -source=controller.go -destination=mocks/mocks.go -package=mocks Fetcher,BucketStore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"grimoire/internal/assetcache/metrics"
	"grimoire/internal/assetcache/mocks"
	"grimoire/internal/assetcache/models"
	"grimoire/internal/assetcache/store"
	"grimoire/internal/platform/logger"
	"grimoire/pkg/platform/sentinel"
)

const testOrigin = "http://app.test/"

var (
	testManifest = []string{"./", "index.html", "script.js", "style.css", "manifest.json"}
	testCritical = []string{"index.html", "script.js", "style.css"}
)

type ControllerSuite struct {
	suite.Suite
	ctx     context.Context
	origin  *fakeOrigin
	buckets *store.InMemoryBucketStore
	metrics *metrics.Metrics
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.origin = newFakeOrigin()
	s.buckets = store.NewInMemoryBucketStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
}

func (s *ControllerSuite) newController(version string) *Controller {
	c, err := New(Config{
		Version:  version,
		Origin:   testOrigin,
		Manifest: testManifest,
		Critical: testCritical,
	}, s.buckets, s.origin,
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
	s.Require().NoError(err)
	return c
}

func (s *ControllerSuite) installed(version string) *Controller {
	c := s.newController(version)
	c.Install(s.ctx)
	s.Require().NoError(c.Activate(s.ctx))
	return c
}

func (s *ControllerSuite) serve(c http.Handler, method, target, accept string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	c.ServeHTTP(w, r)
	return w
}

func (s *ControllerSuite) cached(version, url string) (models.Entry, bool) {
	e, err := s.buckets.Match(s.ctx, version, url)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Entry{}, false
	}
	s.Require().NoError(err)
	return e, true
}

func (s *ControllerSuite) TestNew() {
	s.Run("version is required", func() {
		_, err := New(Config{Origin: testOrigin}, s.buckets, s.origin)
		s.Require().Error(err)
	})

	s.Run("origin must be absolute", func() {
		_, err := New(Config{Version: "v1", Origin: "/app/"}, s.buckets, s.origin)
		s.Require().Error(err)
	})

	s.Run("starts parsed", func() {
		c := s.newController("v1")
		s.Equal(models.StateParsed, c.State())
		s.Equal("v1", c.Version())
	})
}

func (s *ControllerSuite) TestInstall() {
	s.Run("stores the whole manifest", func() {
		c := s.newController("v1")
		c.Install(s.ctx)

		s.Equal(models.StateInstalled, c.State())
		for _, url := range []string{
			"http://app.test/",
			"http://app.test/index.html",
			"http://app.test/script.js",
			"http://app.test/style.css",
			"http://app.test/manifest.json",
		} {
			e, ok := s.cached("v1", url)
			s.Require().True(ok, url)
			s.Equal(http.StatusOK, e.Status)
			s.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), e.StoredAt)
		}
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Installs.WithLabelValues(models.InstallComplete)))
	})

	s.Run("missing asset falls back to critical assets", func() {
		s.origin.remove("/manifest.json")
		c := s.newController("v2")
		c.Install(s.ctx)

		s.Equal(models.StateInstalled, c.State())
		for _, url := range []string{"http://app.test/index.html", "http://app.test/script.js", "http://app.test/style.css"} {
			_, ok := s.cached("v2", url)
			s.True(ok, url)
		}
		_, ok := s.cached("v2", "http://app.test/")
		s.False(ok, "manifest is all-or-nothing")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Installs.WithLabelValues(models.InstallPartial)))
	})

	s.Run("offline install leaves an empty bucket", func() {
		s.origin.setDown(true)
		defer s.origin.setDown(false)

		c := s.newController("v3")
		c.Install(s.ctx)

		s.Equal(models.StateInstalled, c.State())
		keys, err := s.buckets.Keys(s.ctx)
		s.Require().NoError(err)
		s.Contains(keys, "v3")
		_, ok := s.cached("v3", "http://app.test/index.html")
		s.False(ok)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Installs.WithLabelValues(models.InstallFailed)))
	})
}

func (s *ControllerSuite) TestNetworkFirst() {
	s.Run("live response is returned and stored", func() {
		c := s.installed("v1")
		s.Require().NoError(s.buckets.Delete(s.ctx, "v1"))

		w := s.serve(c, http.MethodGet, "/", "text/html")
		c.Wait()

		s.Equal(http.StatusOK, w.Code)
		s.Equal(string(models.SourceNetwork), w.Header().Get(SourceHeader))
		s.Contains(w.Body.String(), "Grimório")

		e, ok := s.cached("v1", "http://app.test/")
		s.Require().True(ok)
		s.Equal(w.Body.String(), string(e.Body))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.BucketWrites.WithLabelValues("ok")))
	})

	s.Run("network wins over a stale copy", func() {
		c := s.installed("v1")
		s.origin.files["/index.html"] = "<p>nova versão</p>"

		w := s.serve(c, http.MethodGet, "/index.html", "text/html")
		c.Wait()

		s.Equal("<p>nova versão</p>", w.Body.String())
		e, ok := s.cached("v1", "http://app.test/index.html")
		s.Require().True(ok)
		s.Equal("<p>nova versão</p>", string(e.Body))
	})

	s.Run("error responses are not stored", func() {
		c := s.installed("v1")

		w := s.serve(c, http.MethodGet, "/missing/", "")
		c.Wait()

		s.Equal(http.StatusNotFound, w.Code)
		s.Equal(string(models.SourceNetwork), w.Header().Get(SourceHeader))
		_, ok := s.cached("v1", "http://app.test/missing/")
		s.False(ok)
	})

	s.Run("offline falls back to the stored copy", func() {
		c := s.installed("v1")
		s.origin.setDown(true)
		defer s.origin.setDown(false)

		w := s.serve(c, http.MethodGet, "/", "text/html")

		s.Equal(http.StatusOK, w.Code)
		s.Equal(string(models.SourceCache), w.Header().Get(SourceHeader))
		s.Contains(w.Body.String(), "Grimório")
		s.Equal(1.0, testutil.ToFloat64(s.metrics.NetworkFailures.WithLabelValues(string(models.ClassDocument))))
	})

	s.Run("offline without a copy is 503", func() {
		c := s.installed("v1")
		s.origin.setDown(true)
		defer s.origin.setDown(false)

		w := s.serve(c, http.MethodGet, "/tabs/", "text/html")

		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Equal("Offline", w.Body.String())
		s.Equal("text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		s.Equal(string(models.SourceOffline), w.Header().Get(SourceHeader))
	})
}

func (s *ControllerSuite) TestCacheFirst() {
	s.Run("hit is served without the network", func() {
		c := s.installed("v1")
		before := s.origin.calls()

		w := s.serve(c, http.MethodGet, "/script.js", "*/*")

		s.Equal(http.StatusOK, w.Code)
		s.Equal(string(models.SourceCache), w.Header().Get(SourceHeader))
		s.Equal("console.log('grimoire')", w.Body.String())
		s.Equal(before, s.origin.calls())
	})

	s.Run("miss is fetched and stored", func() {
		c := s.installed("v1")
		s.origin.files["/icon.png"] = "png"

		w := s.serve(c, http.MethodGet, "/icon.png", "")
		c.Wait()

		s.Equal(string(models.SourceNetwork), w.Header().Get(SourceHeader))
		e, ok := s.cached("v1", "http://app.test/icon.png")
		s.Require().True(ok)
		s.Equal("png", string(e.Body))

		s.origin.setDown(true)
		defer s.origin.setDown(false)
		w = s.serve(c, http.MethodGet, "/icon.png", "")
		s.Equal(string(models.SourceCache), w.Header().Get(SourceHeader))
	})

	s.Run("offline miss is 503", func() {
		c := s.installed("v1")
		s.origin.setDown(true)
		defer s.origin.setDown(false)

		w := s.serve(c, http.MethodGet, "/fonts/runes.woff2", "")

		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Equal("Offline", w.Body.String())
		s.Equal(string(models.SourceOffline), w.Header().Get(SourceHeader))
	})
}

func (s *ControllerSuite) TestBypass() {
	s.Run("cross origin is never stored", func() {
		c := s.installed("v1")
		s.origin.files["/lib.js"] = "lib"

		w := s.serve(c, http.MethodGet, "http://cdn.test/lib.js", "")
		c.Wait()

		s.Equal(http.StatusOK, w.Code)
		s.Equal(string(models.SourceBypass), w.Header().Get(SourceHeader))
		req, _ := s.origin.last()
		s.Equal("cdn.test", req.URL.Host)
		_, ok := s.cached("v1", "http://cdn.test/lib.js")
		s.False(ok)
	})

	s.Run("cross origin offline is 503", func() {
		c := s.installed("v1")
		s.origin.setDown(true)
		defer s.origin.setDown(false)

		w := s.serve(c, http.MethodGet, "http://cdn.test/lib.js", "")

		s.Equal(http.StatusServiceUnavailable, w.Code)
		s.Equal(string(models.SourceOffline), w.Header().Get(SourceHeader))
	})

	s.Run("non-GET keeps method and body", func() {
		c := s.installed("v1")
		s.origin.files["/api/character/fields"] = `{"ok":true}`

		r := httptest.NewRequest(http.MethodPut, "/api/character/fields", strings.NewReader(`{"path":"notes","value":"x"}`))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		c.ServeHTTP(w, r)
		c.Wait()

		s.Equal(string(models.SourceBypass), w.Header().Get(SourceHeader))
		req, body := s.origin.last()
		s.Equal(http.MethodPut, req.Method)
		s.Equal("http://app.test/api/character/fields", req.URL.String())
		s.Equal("application/json", req.Header.Get("Content-Type"))
		s.Equal(`{"path":"notes","value":"x"}`, body)
		_, ok := s.cached("v1", "http://app.test/api/character/fields")
		s.False(ok)
	})
}

func (s *ControllerSuite) TestActivateRemovesOtherVersions() {
	s.installed("v1")
	s.Require().NoError(s.buckets.Open(s.ctx, "legacy"))

	c := s.newController("v2")
	c.Install(s.ctx)
	s.Require().NoError(c.Activate(s.ctx))

	keys, err := s.buckets.Keys(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"v2"}, keys)
	s.Equal(models.StateActivated, c.State())
	s.Equal(2.0, testutil.ToFloat64(s.metrics.BucketsDeleted))
}

func (s *ControllerSuite) TestRequestMetrics() {
	c := s.installed("v1")
	s.serve(c, http.MethodGet, "/script.js", "")
	s.serve(c, http.MethodGet, "/script.js", "")

	got := testutil.ToFloat64(s.metrics.Requests.WithLabelValues(
		string(models.ClassAsset), string(models.StrategyCacheFirst), string(models.SourceCache)))
	s.Equal(2.0, got)
}

func TestControllerSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	origin := newFakeOrigin()

	c, err := New(Config{Version: "v1", Origin: testOrigin}, store.NewInMemoryBucketStore(), origin,
		WithLogger(logger.Discard()),
		WithTracerProvider(tp),
	)
	require.NoError(t, err)

	origin.setDown(true)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	c.ServeHTTP(httptest.NewRecorder(), r)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "assetcache.network-first", span.Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "document", attrs["assetcache.class"].AsString())
	assert.Equal(t, "offline", attrs["assetcache.source"].AsString())
	assert.Equal(t, int64(http.StatusServiceUnavailable), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, "Error", span.Status().Code.String())
	assert.NotEmpty(t, span.Events(), "network error is recorded")
}

func TestCacheHitSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	network := mocks.NewMockFetcher(ctrl)
	buckets := mocks.NewMockBucketStore(ctrl)

	buckets.EXPECT().
		Match(gomock.Any(), "v1", "http://app.test/style.css").
		Return(models.Entry{URL: "http://app.test/style.css", Status: http.StatusOK, Body: []byte("body{}")}, nil)

	c, err := New(Config{Version: "v1", Origin: testOrigin}, buckets, network, WithLogger(logger.Discard()))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	assert.Equal(t, "body{}", w.Body.String())
	assert.Equal(t, "6", w.Header().Get("Content-Length"))
}

func TestBrokenBucketFallsBackToNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	network := mocks.NewMockFetcher(ctrl)
	buckets := mocks.NewMockBucketStore(ctrl)

	buckets.EXPECT().Match(gomock.Any(), "v1", "http://app.test/script.js").
		Return(models.Entry{}, errors.New("redis: connection pool exhausted"))
	network.EXPECT().Do(gomock.Any()).Return(textResponse(http.StatusOK, "js"), nil)
	buckets.EXPECT().Put(gomock.Any(), "v1", gomock.Any()).Return(errors.New("redis: connection pool exhausted"))

	m := metrics.New(prometheus.NewRegistry())
	c, err := New(Config{Version: "v1", Origin: testOrigin}, buckets, network,
		WithLogger(logger.Discard()), WithMetrics(m))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/script.js", nil))
	c.Wait()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "js", w.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BucketWrites.WithLabelValues("error")))
}

func TestActivateReportsDeleteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	buckets := mocks.NewMockBucketStore(ctrl)

	buckets.EXPECT().Keys(gomock.Any()).Return([]string{"v0", "v1"}, nil)
	buckets.EXPECT().Delete(gomock.Any(), "v0").Return(errors.New("boom"))

	c, err := New(Config{Version: "v1", Origin: testOrigin}, buckets, mocks.NewMockFetcher(ctrl), WithLogger(logger.Discard()))
	require.NoError(t, err)

	err = c.Activate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete bucket v0")
	assert.Equal(t, models.StateActivated, c.State())
}
