package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nandanugg/silentzone/module/core/domain"
)

const namespace = "silentzone"

const (
	ResultSent       = "sent"
	ResultSuppressed = "suppressed"
	ResultFailed     = "failed"
)

// Monitor holds the geofence and ringer counters.
type Monitor struct {
	Samples        *prometheus.CounterVec
	Transitions    *prometheus.CounterVec
	RingerCommands *prometheus.CounterVec
	Distance       prometheus.Gauge
}

// NewMonitor registers the monitor collectors on reg. A nil reg leaves them
// unregistered, which is what tests want.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_samples_total",
			Help:      "Location samples processed by the geofence monitor.",
		}, []string{"outcome"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_transitions_total",
			Help:      "Zone boundary crossings.",
		}, []string{"event"}),
		RingerCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ringer_commands_total",
			Help:      "Ringer commands by mode and result.",
		}, []string{"mode", "result"}),
		Distance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zone_distance_meters",
			Help:      "Distance from the last processed sample to the zone centre.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Samples, m.Transitions, m.RingerCommands, m.Distance)
	}
	return m
}

func (m *Monitor) ObserveSample(outcome string) {
	m.Samples.WithLabelValues(outcome).Inc()
}

func (m *Monitor) ObserveTransition(event domain.TransitionEvent) {
	m.Transitions.WithLabelValues(string(event)).Inc()
}

func (m *Monitor) ObserveCommand(mode domain.RingerMode, result string) {
	m.RingerCommands.WithLabelValues(string(mode), result).Inc()
}
