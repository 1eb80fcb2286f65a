package relay

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KohanMathers/ProjectNeon/internal/util/neonclock"
)

// Option configures a Server at construction.
type Option func(*Server) error

// WithClock overrides the Server's time source. Tests use
// neonclock.NewMock() to control last-seen timestamps deterministically.
func WithClock(c neonclock.Clock) Option {
	return func(s *Server) error {
		s.clock = c
		return nil
	}
}

// WithMetricsRegisterer registers the Server's counters against reg instead
// of leaving them unregistered. Pass prometheus.NewRegistry() in tests that
// run several Servers to avoid collecting into the global default
// registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) error {
		s.registerer = reg
		return nil
	}
}

// WithInstanceTag overrides the Server's auto-generated UUID instance tag,
// which is the "instance" label on the Server's metrics.
func WithInstanceTag(tag string) Option {
	return func(s *Server) error {
		s.instance = tag
		return nil
	}
}
