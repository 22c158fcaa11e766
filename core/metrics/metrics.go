package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks run outcomes, record outcomes and run duration per registry.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Records     *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
}

// New registers the run metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_sync_runs_total",
			Help: "Total number of synchronization runs by registry and status",
		}, []string{"registry", "status"}),
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_sync_records_total",
			Help: "Total number of records processed by registry and outcome",
		}, []string{"registry", "outcome"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_sync_run_duration_seconds",
			Help:    "Duration of synchronization runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"registry"}),
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(registry string, failed bool, accepted, skipped int, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if failed {
		status = "failure"
	}
	m.Runs.WithLabelValues(registry, status).Inc()
	m.Records.WithLabelValues(registry, "accepted").Add(float64(accepted))
	m.Records.WithLabelValues(registry, "skipped").Add(float64(skipped))
	m.RunDuration.WithLabelValues(registry).Observe(d.Seconds())
}
