package relay

import "github.com/prometheus/client_golang/prometheus"

// metrics groups the counters one relay.Server instance exposes. Each
// Server registers its own metrics against the registerer passed via
// WithMetricsRegisterer, or leaves them unregistered if none is given, so
// multiple Servers in one process — as in tests — don't collide on metric
// names.
type metrics struct {
	packetsForwarded prometheus.Counter
	packetsBroadcast prometheus.Counter
	packetsDropped   *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, instance string) *metrics {
	labels := prometheus.Labels{"instance": instance}

	m := &metrics{
		packetsForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "relay",
			Name:        "packets_forwarded_total",
			Help:        "Datagrams forwarded to a single destination.",
			ConstLabels: labels,
		}),
		packetsBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "relay",
			Name:        "packets_broadcast_total",
			Help:        "Datagrams fanned out to a session's other participants.",
			ConstLabels: labels,
		}),
		packetsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "relay",
			Name:        "packets_dropped_total",
			Help:        "Datagrams dropped before routing, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "neon",
			Subsystem:   "relay",
			Name:        "sessions_active",
			Help:        "Sessions currently materialized in the relay's table.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.packetsForwarded, m.packetsBroadcast, m.packetsDropped, m.sessionsActive)
	}
	return m
}

func (m *metrics) dropped(reason string) {
	if m == nil {
		return
	}
	m.packetsDropped.WithLabelValues(reason).Inc()
}
