package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/coroutines/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by a timeline.
// All series carry a "timeline" label.
type Metrics struct {
	Ticks        *prometheus.CounterVec
	Advances     *prometheus.CounterVec
	Started      *prometheus.CounterVec
	Stopped      *prometheus.CounterVec
	Finished     *prometheus.CounterVec
	Live         *prometheus.GaugeVec
	TickDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them with
// reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	labels := []string{"timeline"}
	m := &Metrics{
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of scheduling passes.",
		}, labels),
		Advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_advances_total",
			Help:      "Total number of step advances.",
		}, labels),
		Started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_started_total",
			Help:      "Total number of steps registered.",
		}, labels),
		Stopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_stopped_total",
			Help:      "Total number of steps stopped before finishing.",
		}, labels),
		Finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_finished_total",
			Help:      "Total number of steps that ran to completion.",
		}, labels),
		Live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "steps_live",
			Help:      "Steps registered after the last tick.",
		}, labels),
		TickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one scheduling pass.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .004, .008, .016, .033},
		}, labels),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Ticks, m.Advances, m.Started, m.Stopped, m.Finished, m.Live, m.TickDuration,
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(e *domain.StepEvent) {
			m.Started.WithLabelValues(e.Timeline).Inc()
		},
		OnStepStop: func(e *domain.StepEvent) {
			m.Stopped.WithLabelValues(e.Timeline).Inc()
		},
		OnStepFinish: func(e *domain.StepEvent) {
			m.Finished.WithLabelValues(e.Timeline).Inc()
		},
		OnTick: func(e *domain.TickEvent) {
			m.Ticks.WithLabelValues(e.Timeline).Inc()
			m.Advances.WithLabelValues(e.Timeline).Add(float64(e.Advanced))
			m.Live.WithLabelValues(e.Timeline).Set(float64(e.Live))
			m.TickDuration.WithLabelValues(e.Timeline).Observe(e.Duration.Seconds())
		},
	}
}
