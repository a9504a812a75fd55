package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RowsExtracted tracks rows turned into candidate records.
	RowsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opexingest_rows_extracted_total",
			Help: "Total number of spreadsheet rows extracted into records",
		},
		[]string{"domain"},
	)

	// RecordsReconciled tracks reconciliation outcomes per record.
	RecordsReconciled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opexingest_records_reconciled_total",
			Help: "Total number of records by reconciliation outcome",
		},
		[]string{"domain", "outcome"},
	)

	// RunDuration tracks end-to-end ingestion run duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "opexingest_run_duration_seconds",
			Help:    "Ingestion run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	// RunsTotal tracks finished runs by status.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opexingest_runs_total",
			Help: "Total number of ingestion runs by final status",
		},
		[]string{"domain", "status"},
	)
)

// ObserveRun records the metrics for one finished run.
func ObserveRun(domain, status string, started time.Time) {
	RunDuration.WithLabelValues(domain).Observe(time.Since(started).Seconds())
	RunsTotal.WithLabelValues(domain, status).Inc()
}

// ServeMetrics exposes the Prometheus endpoint on addr. It blocks, so run it
// in its own goroutine.
func ServeMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("metrics server started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server error", "error", err)
	}
}
