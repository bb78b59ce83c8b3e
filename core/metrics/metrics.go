// Package metrics exposes Prometheus instrumentation for the dispatcher
// and module coordinator: how many directives got dispatched, how long a
// parse took, and how often each lifecycle phase fails.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the core reports to. A nil *Metrics is
// valid everywhere it's accepted and simply does nothing, so callers that
// don't care about metrics (most tests) can pass nil.
type Metrics struct {
	entriesDispatched *prometheus.CounterVec
	dispatchErrors    *prometheus.CounterVec
	dispatchDuration  prometheus.Histogram
	phaseDuration     *prometheus.HistogramVec
	lifecycleErrors   *prometheus.CounterVec
	running           prometheus.Gauge
}

// New registers a fresh set of collectors against reg and returns a
// Metrics bound to it. Pass prometheus.NewRegistry() in tests to avoid
// colliding with the global default registry across packages.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		entriesDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcfgd",
			Name:      "entries_dispatched_total",
			Help:      "Directives successfully dispatched to a handler.",
		}, []string{"directive"}),
		dispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcfgd",
			Name:      "dispatch_errors_total",
			Help:      "Parse/dispatch failures by error kind.",
		}, []string{"kind"}),
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netcfgd",
			Name:      "dispatch_duration_seconds",
			Help:      "Time to fully parse and dispatch one configuration text.",
			Buckets:   prometheus.DefBuckets,
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "netcfgd",
			Name:      "lifecycle_phase_duration_seconds",
			Help:      "Time spent running one lifecycle phase across all modules.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		lifecycleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcfgd",
			Name:      "lifecycle_errors_total",
			Help:      "Lifecycle hook failures by module and phase.",
		}, []string{"module", "phase"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netcfgd",
			Name:      "running",
			Help:      "1 if the coordinator is in the running state, 0 otherwise.",
		}),
	}
	reg.MustRegister(m.entriesDispatched, m.dispatchErrors, m.dispatchDuration, m.phaseDuration, m.lifecycleErrors, m.running)
	return m
}

func (m *Metrics) IncEntry(directive string) {
	if m == nil {
		return
	}
	m.entriesDispatched.WithLabelValues(directive).Inc()
}

func (m *Metrics) IncDispatchError(kind string) {
	if m == nil {
		return
	}
	m.dispatchErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) IncLifecycleError(module, phase string) {
	if m == nil {
		return
	}
	m.lifecycleErrors.WithLabelValues(module, phase).Inc()
}

func (m *Metrics) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}
