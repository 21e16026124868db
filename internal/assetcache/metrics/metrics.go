package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the asset cache controller.
type Metrics struct {
	// Intercepted requests by routing class, strategy and response source
	Requests *prometheus.CounterVec

	// Fetches that failed before a response arrived
	NetworkFailures *prometheus.CounterVec

	// Asynchronous bucket writes by result
	BucketWrites *prometheus.CounterVec

	// Install outcome: complete, partial, failed
	Installs *prometheus.CounterVec

	// Stale buckets removed on activation
	BucketsDeleted prometheus.Counter
}

// New registers the asset cache metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_assetcache_requests_total",
			Help: "Total intercepted requests by class, strategy and source",
		}, []string{"class", "strategy", "source"}),

		NetworkFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_assetcache_network_failures_total",
			Help: "Total upstream fetches that failed by routing class",
		}, []string{"class"}),

		BucketWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_assetcache_bucket_writes_total",
			Help: "Total asynchronous bucket writes by result",
		}, []string{"result"}), // result: "ok", "error"

		Installs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grimoire_assetcache_installs_total",
			Help: "Total installs by outcome",
		}, []string{"outcome"}),

		BucketsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "grimoire_assetcache_buckets_deleted_total",
			Help: "Total stale buckets deleted on activation",
		}),
	}
}

func (m *Metrics) IncrementRequest(class, strategy, source string) {
	if m != nil {
		m.Requests.WithLabelValues(class, strategy, source).Inc()
	}
}

func (m *Metrics) IncrementNetworkFailure(class string) {
	if m != nil {
		m.NetworkFailures.WithLabelValues(class).Inc()
	}
}

// IncrementBucketWrite records the result of one background write.
func (m *Metrics) IncrementBucketWrite(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BucketWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementInstall(outcome string) {
	if m != nil {
		m.Installs.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementBucketsDeleted() {
	if m != nil {
		m.BucketsDeleted.Inc()
	}
}
