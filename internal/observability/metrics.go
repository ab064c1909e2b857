package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for report processing.
type Metrics struct {
	// Retrieval metrics.
	ReportFetches       *prometheus.CounterVec // labels: outcome={success,not_found,error}
	ReportFetchDuration prometheus.Histogram
	ReportCache         *prometheus.CounterVec // labels: result={hit,miss}

	// Pipeline metrics.
	PipelineOutcomes      *prometheus.CounterVec // labels: outcome={READY_FOR_DISPLAY,NOT_FOUND,...}
	RecordsExtracted      prometheus.Histogram
	RowsSkipped           prometheus.Counter
	ExtractionDiscrepancy prometheus.Counter
	ResultsPublished      prometheus.Counter
	ResultPublishErrors   prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "report_fetches_total",
			Help:      "Report downloads by outcome.",
		}, []string{"outcome"}),
		ReportFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall_normals",
			Name:      "report_fetch_duration_seconds",
			Help:      "Duration of report downloads from the SMN server.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "report_cache_total",
			Help:      "Report cache lookups by result.",
		}, []string{"result"}),
		PipelineOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "pipeline_outcomes_total",
			Help:      "Completed station lookups by terminal outcome.",
		}, []string{"outcome"}),
		RecordsExtracted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall_normals",
			Name:      "records_extracted",
			Help:      "Number of rainfall records extracted per report.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 80, 100},
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "rows_skipped_total",
			Help:      "Table rows dropped because a column failed to parse.",
		}),
		ExtractionDiscrepancy: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "extraction_discrepancies_total",
			Help:      "Reports where the structural and pattern extractors disagree.",
		}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "results_published_total",
			Help:      "Rankings published to the export sink.",
		}),
		ResultPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_normals",
			Name:      "result_publish_errors_total",
			Help:      "Failed publications to the export sink.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportFetches,
		m.ReportFetchDuration,
		m.ReportCache,
		m.PipelineOutcomes,
		m.RecordsExtracted,
		m.RowsSkipped,
		m.ExtractionDiscrepancy,
		m.ResultsPublished,
		m.ResultPublishErrors,
	)
	return m
}

// NewDetachedMetrics creates Metrics that are never registered, for one-shot
// commands that expose no /metrics endpoint.
func NewDetachedMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
