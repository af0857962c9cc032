package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the workflow module.
type Metrics struct {
	// Stage latencies by stage name
	StageLatency *prometheus.HistogramVec

	// Final decisions by outcome
	DecisionOutcome *prometheus.CounterVec

	// Panics converted into structured failures at the workflow boundary
	PanicsRecovered prometheus.Counter
}

// New creates a Metrics instance with all workflow module metrics registered.
func New() *Metrics {
	return &Metrics{
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kyc_workflow_stage_duration_seconds",
			Help:    "Duration of workflow stages by stage name",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_workflow_decisions_total",
			Help: "Total final decisions by outcome",
		}, []string{"decision"}),

		PanicsRecovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kyc_workflow_panics_recovered_total",
			Help: "Total panics recovered at the workflow boundary",
		}),
	}
}

// ObserveStageLatency records the duration of one workflow stage.
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementDecision records a final decision outcome.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(decision).Inc()
	}
}

// IncrementPanicsRecovered records a recovered panic.
func (m *Metrics) IncrementPanicsRecovered() {
	if m != nil {
		m.PanicsRecovered.Inc()
	}
}
