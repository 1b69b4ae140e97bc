package observability

import (
	"context"

	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for marquee_sequences_total.
const (
	OutcomeFinalized = "finalized"
	OutcomeSkipped   = "skipped"
	OutcomeReduced   = "reduced"
)

// Metrics holds the collectors fed by sequence hooks.
type Metrics struct {
	StepsApplied   *prometheus.CounterVec
	TargetsMissing *prometheus.CounterVec
	StepsFailed    prometheus.Counter
	Sequences      *prometheus.CounterVec
	Replays        prometheus.Counter
	Duration       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marquee_steps_applied_total",
				Help: "Total number of sequence steps applied to a stage",
			},
			[]string{"action"},
		),
		TargetsMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marquee_targets_missing_total",
				Help: "Steps dropped because their visual target was absent",
			},
			[]string{"target"},
		),
		StepsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marquee_steps_failed_total",
			Help: "Steps dropped because the stage returned an error",
		}),
		Sequences: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marquee_sequences_total",
				Help: "Finished sequences by outcome",
			},
			[]string{"outcome"},
		),
		Replays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marquee_replays_total",
			Help: "Total number of replays requested",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marquee_sequence_duration_seconds",
			Help:    "Time from start to finalization",
			Buckets: []float64{0, 1, 2.5, 5, 7.5, 10, 12.5, 15, 30},
		}),
	}
	reg.MustRegister(m.StepsApplied, m.TargetsMissing, m.StepsFailed, m.Sequences, m.Replays, m.Duration)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepApplied: func(ctx context.Context, e *domain.StepEvent) {
			m.StepsApplied.WithLabelValues(string(e.Action)).Inc()
		},
		OnStepFailed: func(ctx context.Context, e *domain.StepEvent) {
			if e.Missing {
				m.TargetsMissing.WithLabelValues(e.Target).Inc()
				return
			}
			m.StepsFailed.Inc()
		},
		OnFinalize: func(ctx context.Context, e *domain.SequenceEvent) {
			outcome := OutcomeFinalized
			switch {
			case e.Phase == domain.PhaseSkipped:
				outcome = OutcomeSkipped
			case e.ReducedMotion:
				outcome = OutcomeReduced
			}
			m.Sequences.WithLabelValues(outcome).Inc()
			m.Duration.Observe(e.Elapsed.Seconds())
		},
		OnReplay: func(ctx context.Context, e *domain.SequenceEvent) {
			m.Replays.Inc()
		},
	}
}
