package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tktmap"

// Metrics holds the Prometheus collectors for pipeline runs.
type Metrics struct {
	RunsTotal    *prometheus.CounterVec // labels: outcome={success,structural_error,error}
	RowsRead     prometheus.Counter
	RowsKept     prometheus.Counter
	RowsDropped  prometheus.Counter
	SuspectCells *prometheus.CounterVec // labels: column
	Records      *prometheus.CounterVec // labels: color

	RunDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read from input files.",
		}),
		RowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_kept_total",
			Help:      "Rows with valid coordinates.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows dropped for missing coordinates or malformed CSV.",
		}),
		SuspectCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suspect_cells_total",
			Help:      "Numeric cells whose format suggests the wrong numeric mode.",
		}, []string{"column"}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classified_records_total",
			Help:      "Classified records by marker color.",
		}, []string{"color"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Duration of a complete load-classify-group run.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RowsRead,
		m.RowsKept,
		m.RowsDropped,
		m.SuspectCells,
		m.Records,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
