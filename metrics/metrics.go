// Package metrics exposes engine telemetry as Prometheus collectors.
//
// A Collector implements engine.Observer; pass it to a Handle via
// engine.WithObserver. One Collector can serve any number of handles.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/loopkit/core"
)

// Collector records lifecycle phases and run completions. All methods are
// safe for concurrent use.
type Collector struct {
	phases    *prometheus.CounterVec
	runs      *prometheus.CounterVec
	durations *prometheus.HistogramVec
	steps     *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg. A nil
// reg falls back to the default Prometheus registerer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loopkit",
				Subsystem: "engine",
				Name:      "phases_total",
				Help:      "Lifecycle phases fired, by role and phase.",
			},
			[]string{"role", "phase"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loopkit",
				Subsystem: "engine",
				Name:      "runs_total",
				Help:      "Runs completed, by role and terminal outcome.",
			},
			[]string{"role", "outcome"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "loopkit",
				Subsystem: "engine",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock run duration from start to Closed.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"role", "outcome"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "loopkit",
				Subsystem: "engine",
				Name:      "run_steps",
				Help:      "Circuit steps completed per run.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"role", "outcome"},
		),
	}

	for _, m := range []prometheus.Collector{c.phases, c.runs, c.durations, c.steps} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNewCollector is NewCollector that panics on registration failure.
func MustNewCollector(reg prometheus.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}

	return c
}

// PhaseFired implements engine.Observer.
func (c *Collector) PhaseFired(role string, phase core.Phase) {
	c.phases.WithLabelValues(role, phase.String()).Inc()
}

// RunFinished implements engine.Observer.
func (c *Collector) RunFinished(role string, outcome core.RunState, steps int, dur time.Duration) {
	o := outcome.String()
	c.runs.WithLabelValues(role, o).Inc()
	c.durations.WithLabelValues(role, o).Observe(dur.Seconds())
	c.steps.WithLabelValues(role, o).Observe(float64(steps))
}
