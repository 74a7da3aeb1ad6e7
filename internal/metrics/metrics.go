// Package metrics exposes Prometheus metrics for the scheduler daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the daemon's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	lastSuccess  *prometheus.GaugeVec
	snapshotVars prometheus.Gauge
}

// New creates and registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weathercron_job_runs_total",
			Help: "Job runs by job name and result",
		}, []string{"job", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weathercron_job_run_duration_seconds",
			Help:    "Job run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "weathercron_job_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
		snapshotVars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weathercron_snapshot_variables",
			Help: "Number of environment variables in the current snapshot",
		}),
	}

	m.registry.MustRegister(m.runsTotal, m.runDuration, m.lastSuccess, m.snapshotVars)
	return m
}

// Registry returns the underlying registry for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records one job run
func (m *Metrics) RecordRun(job, result string, duration time.Duration) {
	m.runsTotal.WithLabelValues(job, result).Inc()
	m.runDuration.WithLabelValues(job).Observe(duration.Seconds())
	if result == ResultSuccess {
		m.lastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
}

// SetSnapshotVariables records the snapshot size after export
func (m *Metrics) SetSnapshotVariables(n int) {
	m.snapshotVars.Set(float64(n))
}
