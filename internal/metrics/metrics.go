// Package metrics counts parse activity on a private Prometheus registry
// and pushes it to a Pushgateway at the end of a batch run.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rotisserie/eris"
)

// Recorder holds the parse counters. A nil *Recorder ignores every call.
type Recorder struct {
	reg *prometheus.Registry

	rows       *prometheus.CounterVec
	cases      *prometheus.CounterVec
	failures   *prometheus.CounterVec
	exceptions *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	saved      *prometheus.CounterVec
}

// New creates a Recorder with its collectors registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_rows_total",
			Help: "Rows read from export files, by schema variant.",
		}, []string{"schema"}),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_cases_total",
			Help: "Cases rebuilt from export files, by schema variant.",
		}, []string{"schema"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_parse_failures_total",
			Help: "Aborted parses, by error kind.",
		}, []string{"kind"}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_exceptions_applied_total",
			Help: "Known bad values recovered through the exception table.",
		}, []string{"column", "action"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_values_skipped_total",
			Help: "Optional values left unset because they were not numeric.",
		}, []string{"column"}),
		saved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accident_cases_saved_total",
			Help: "Cases persisted to the store, by driver.",
		}, []string{"driver"}),
	}
	r.reg.MustRegister(r.rows, r.cases, r.failures, r.exceptions, r.skipped, r.saved)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) Rows(schema string, n int) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(schema).Add(float64(n))
}

func (r *Recorder) Cases(schema string, n int) {
	if r == nil {
		return
	}
	r.cases.WithLabelValues(schema).Add(float64(n))
}

func (r *Recorder) ParseFailed(kind string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(kind).Inc()
}

func (r *Recorder) ExceptionApplied(column, action string) {
	if r == nil {
		return
	}
	r.exceptions.WithLabelValues(column, action).Inc()
}

func (r *Recorder) ValueSkipped(column string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(column).Inc()
}

func (r *Recorder) Saved(driver string, n int64) {
	if r == nil {
		return
	}
	r.saved.WithLabelValues(driver).Add(float64(n))
}

// Push sends every collected metric to the Pushgateway at url, grouped
// under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil {
		return nil
	}
	if url == "" {
		return eris.New("metrics: pushgateway url is required")
	}
	if job == "" {
		job = "accident-cli"
	}
	if err := push.New(url, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return eris.Wrap(err, "metrics: push")
	}
	return nil
}
