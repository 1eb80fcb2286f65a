package host

import "github.com/prometheus/client_golang/prometheus"

// metrics groups the counters one host.Host instance exposes.
type metrics struct {
	connectsAccepted prometheus.Counter
	connectsDenied   *prometheus.CounterVec
	pingsAnswered    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, instance string) *metrics {
	labels := prometheus.Labels{"instance": instance}

	m := &metrics{
		connectsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "host",
			Name:        "connects_accepted_total",
			Help:        "ConnectRequests accepted and assigned a client_id.",
			ConstLabels: labels,
		}),
		connectsDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "host",
			Name:        "connects_denied_total",
			Help:        "ConnectRequests refused, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		pingsAnswered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "neon",
			Subsystem:   "host",
			Name:        "pings_answered_total",
			Help:        "Pings received and answered with a Pong.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.connectsAccepted, m.connectsDenied, m.pingsAnswered)
	}
	return m
}

func (m *metrics) denied(reason string) {
	if m == nil {
		return
	}
	m.connectsDenied.WithLabelValues(reason).Inc()
}
