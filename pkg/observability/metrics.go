package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for evaluations.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	StateVisits *prometheus.CounterVec
	Steps       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_evaluations_total",
				Help: "Total number of evaluations by result",
			},
			[]string{"result"},
		),
		StateVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_state_visits_total",
				Help: "Total number of transitions into each state",
			},
			[]string{"state"},
		),
		Steps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "turing_evaluation_steps",
				Help:    "Number of steps taken per evaluation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 11),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Evaluations, m.StateVisits, m.Steps)
	}
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.StateVisits.WithLabelValues(e.Transition.To()).Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			m.Evaluations.WithLabelValues(string(e.Outcome.Result)).Inc()
			m.Steps.Observe(float64(e.Outcome.Steps))
		},
	}
}
