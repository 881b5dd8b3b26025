package metrics

import (
	"fmt"
	"time"

	"db-compare/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dbcompare"

// Recorder collects per-job counters for one run. A nil Recorder ignores every call.
type Recorder struct {
	registry *prometheus.Registry

	windows  *prometheus.CounterVec
	fetched  *prometheus.CounterVec
	matched  *prometheus.CounterVec
	missing  *prometheus.CounterVec
	extra    *prometheus.CounterVec
	diffs    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"job"})
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		windows:  counter("windows_total", "Windows fetched from both sources."),
		fetched:  counter("rows_fetched_total", "Rows fetched from the primary."),
		matched:  counter("rows_matched_total", "Rows present on both sources."),
		missing:  counter("rows_missing_total", "Rows present only on the primary."),
		extra:    counter("rows_extra_total", "Rows present only on the secondary."),
		diffs:    counter("rows_different_total", "Matched rows whose content differs."),
		failures: counter("table_failures_total", "Tables whose comparison failed."),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_duration_seconds",
			Help:      "Time spent comparing one table.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 4, 8),
		}, []string{"job"}),
	}

	r.registry.MustRegister(r.windows, r.fetched, r.matched, r.missing, r.extra, r.diffs, r.failures, r.duration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveWindow records one reconciled window.
func (r *Recorder) ObserveWindow(job string, res reconcile.ReconciliationResult, rec reconcile.DiffRecord) {
	if r == nil {
		return
	}
	r.windows.WithLabelValues(job).Inc()
	r.fetched.WithLabelValues(job).Add(float64(len(res.Matched) + len(res.Missing)))
	r.matched.WithLabelValues(job).Add(float64(len(res.Matched)))
	r.missing.WithLabelValues(job).Add(float64(len(res.Missing)))
	r.extra.WithLabelValues(job).Add(float64(len(res.Extra)))
	r.diffs.WithLabelValues(job).Add(float64(len(rec.Diffs)))
}

// TableFailed counts a failed table.
func (r *Recorder) TableFailed(job string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(job).Inc()
}

// TableDone records how long a table took.
func (r *Recorder) TableDone(job string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(job).Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
