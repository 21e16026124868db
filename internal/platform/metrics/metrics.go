package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide HTTP metrics.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	CacheVersion   *prometheus.GaugeVec
}

// New registers the HTTP metrics and the Go runtime collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grimoire_http_request_duration_seconds",
			Help:    "HTTP request latency by server, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"server", "method", "status"}),
		CacheVersion: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "grimoire_cache_version_info",
			Help: "Set to 1 for the cache version currently served",
		}, []string{"version"}),
	}
}

// ForServer returns the latency histogram curried with the server label.
func (m *Metrics) ForServer(name string) prometheus.ObserverVec {
	return m.RequestLatency.MustCurryWith(prometheus.Labels{"server": name})
}

// SetCacheVersion marks version as the one currently served.
func (m *Metrics) SetCacheVersion(version string) {
	if m == nil {
		return
	}
	m.CacheVersion.Reset()
	m.CacheVersion.WithLabelValues(version).Set(1)
}
