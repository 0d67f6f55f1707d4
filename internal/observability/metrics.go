package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace  = "contentflow"
	pipelineSubsystem = "pipeline"
	providerSubsystem = "provider"
	progressSubsystem = "progress"
)

// Provider call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeFallback = "fallback"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	ActiveRuns         prometheus.Gauge
	ProviderCallsTotal *prometheus.CounterVec
	ProgressRecords    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "runs_total",
				Help:      "Finished generation runs by final status",
			},
			[]string{"status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "stage_duration_seconds",
				Help:      "Wall time spent in each pipeline stage",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 20, 60},
			},
			[]string{"stage"},
		),
		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: pipelineSubsystem,
				Name:      "active_runs",
				Help:      "Generation runs currently in flight",
			},
		),
		ProviderCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: providerSubsystem,
				Name:      "calls_total",
				Help:      "Research and writer provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		ProgressRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: progressSubsystem,
				Name:      "records",
				Help:      "Generation records held in the progress store",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.RunsTotal, m.StageDuration, m.ActiveRuns, m.ProviderCallsTotal, m.ProgressRecords,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RunStarted increments the in-flight gauge.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.ActiveRuns.Inc()
}

// RunFinished decrements the in-flight gauge and counts the final status.
func (m *Metrics) RunFinished(status string) {
	if m == nil {
		return
	}
	m.ActiveRuns.Dec()
	m.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ProviderCall counts one provider call.
func (m *Metrics) ProviderCall(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
}

// SetProgressRecords reports the progress store size.
func (m *Metrics) SetProgressRecords(n int) {
	if m == nil {
		return
	}
	m.ProgressRecords.Set(float64(n))
}
