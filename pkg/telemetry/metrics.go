package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus instrumentation of the chaos engine
type Metrics struct {
	InjectionsTotal     *prometheus.CounterVec
	ExperimentsTotal    *prometheus.CounterVec
	EmergencyStopsTotal prometheus.Counter
	ActiveExperiments   prometheus.Gauge
}

// NewMetrics builds and registers the engine collectors on the given
// registerer, pass nil to keep the instrumentation unregistered
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		InjectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chaos",
			Name:      "injections_total",
			Help:      "Number of fault injections executed, by event kind and service.",
		}, []string{"event", "service"}),
		ExperimentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chaos",
			Name:      "experiments_total",
			Help:      "Number of experiments finished, by terminal status.",
		}, []string{"status"}),
		EmergencyStopsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chaos",
			Name:      "emergency_stops_total",
			Help:      "Number of emergency stops triggered.",
		}),
		ActiveExperiments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chaos",
			Name:      "active_experiments",
			Help:      "Number of experiments currently tracked by the engine.",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.InjectionsTotal, m.ExperimentsTotal, m.EmergencyStopsTotal, m.ActiveExperiments)
	}
	return m
}
