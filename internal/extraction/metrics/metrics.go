package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the extraction module.
type Metrics struct {
	// Per-document extraction latency by resolved document type
	ExtractLatency *prometheus.HistogramVec

	// Batch outcomes: success, partial_success, failed
	BatchOutcome *prometheus.CounterVec

	// Per-document outcomes: success, failed
	DocumentOutcome *prometheus.CounterVec
}

// New creates a Metrics instance with all extraction module metrics registered.
func New() *Metrics {
	return &Metrics{
		ExtractLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyc_extraction_document_duration_seconds",
			Help:    "Duration of single-document extraction by document type",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"document_type"}),

		BatchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_extraction_batches_total",
			Help: "Total extraction batches by outcome",
		}, []string{"outcome"}),

		DocumentOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_extraction_documents_total",
			Help: "Total extracted documents by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveExtractLatency records the duration of one document extraction.
func (m *Metrics) ObserveExtractLatency(documentType string, d time.Duration) {
	if m != nil {
		m.ExtractLatency.WithLabelValues(documentType).Observe(d.Seconds())
	}
}

// IncrementBatch records a batch outcome.
func (m *Metrics) IncrementBatch(outcome string) {
	if m != nil {
		m.BatchOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementDocument records a per-document outcome.
func (m *Metrics) IncrementDocument(outcome string) {
	if m != nil {
		m.DocumentOutcome.WithLabelValues(outcome).Inc()
	}
}
