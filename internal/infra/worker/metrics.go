package worker

import (
	"context"

	"feed-aggregator/internal/pkg/config"
	"feed-aggregator/internal/usecase/poll"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the polling worker.
// It embeds ConfigMetrics for configuration monitoring and implements poll.Sink.
//
// Worker-specific metrics:
//   - worker_poll_runs_total: poll runs by status (success/failure)
//   - worker_poll_run_duration_seconds: duration histogram of poll runs
//   - worker_poll_items_total: items read by successful runs
//   - worker_poll_last_success_timestamp: Unix timestamp of the last successful run
//   - worker_scheduled_sources: sources currently scheduled
//   - worker_reconcile_runs_total: registry reconciliations by status
type WorkerMetrics struct {
	*config.ConfigMetrics

	PollRunsTotal            *prometheus.CounterVec
	PollRunDurationSeconds   prometheus.Histogram
	PollItemsTotal           prometheus.Counter
	PollLastSuccessTimestamp prometheus.Gauge
	ScheduledSources         prometheus.Gauge
	ReconcileRunsTotal       *prometheus.CounterVec
}

// NewWorkerMetrics creates the worker metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		PollRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_poll_runs_total",
			Help: "Total number of poll runs by status (success/failure)",
		}, []string{"status"}),

		PollRunDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_poll_run_duration_seconds",
			Help:    "Duration of a single poll run in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		PollItemsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_poll_items_total",
			Help: "Total number of items read by successful poll runs",
		}),

		PollLastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_poll_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll run",
		}),

		ScheduledSources: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_scheduled_sources",
			Help: "Number of sources currently scheduled for polling",
		}),

		ReconcileRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_reconcile_runs_total",
			Help: "Total number of registry reconciliations by status (success/failure)",
		}, []string{"status"}),
	}
}

// Record implements poll.Sink.
func (m *WorkerMetrics) Record(_ context.Context, o poll.Outcome) {
	m.PollRunDurationSeconds.Observe(o.Duration.Seconds())
	if o.Err != nil {
		m.PollRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.PollRunsTotal.WithLabelValues("success").Inc()
	if o.Channel != nil {
		m.PollItemsTotal.Add(float64(len(o.Channel.Items)))
	}
	m.PollLastSuccessTimestamp.SetToCurrentTime()
}

// RecordReconcile counts a reconciliation and updates the scheduled sources gauge.
func (m *WorkerMetrics) RecordReconcile(err error, scheduled int) {
	if err != nil {
		m.ReconcileRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.ReconcileRunsTotal.WithLabelValues("success").Inc()
	m.ScheduledSources.Set(float64(scheduled))
}
