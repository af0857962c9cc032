package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the government verification module.
type Metrics struct {
	// Authority lookup latency
	LookupLatency prometheus.Histogram

	// Classified outcomes by verification status
	LookupOutcome *prometheus.CounterVec

	// Cache hit/miss counts
	CacheResult *prometheus.CounterVec
}

// New creates a Metrics instance with all government module metrics registered.
func New() *Metrics {
	return &Metrics{
		LookupLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_government_lookup_duration_seconds",
			Help:    "Duration of government record lookups",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		LookupOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_government_lookups_total",
			Help: "Total government lookups by verification status",
		}, []string{"status"}),

		CacheResult: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_government_cache_total",
			Help: "Government lookup cache hits and misses",
		}, []string{"result"}), // result: "hit", "miss"
	}
}

// ObserveLookupLatency records the duration of one authority lookup.
func (m *Metrics) ObserveLookupLatency(d time.Duration) {
	if m != nil {
		m.LookupLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records a classified lookup outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.LookupOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementCache records a cache hit or miss.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheResult.WithLabelValues(result).Inc()
	}
}
