package host

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KohanMathers/ProjectNeon/internal/util/neonclock"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

// Option configures a Host at construction.
type Option func(*Host) error

// WithClock overrides the Host's time source.
func WithClock(c neonclock.Clock) Option {
	return func(h *Host) error {
		h.clock = c
		return nil
	}
}

// WithMetricsRegisterer registers the Host's counters against reg instead
// of leaving them unregistered.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(h *Host) error {
		h.registerer = reg
		return nil
	}
}

// WithInstanceTag overrides the Host's auto-generated UUID instance tag.
func WithInstanceTag(tag string) Option {
	return func(h *Host) error {
		h.instance = tag
		return nil
	}
}

// WithHandler assigns the Host's event callbacks at construction, so
// callers don't need a separate SetHandler call before Start.
func WithHandler(hdl Handler) Option {
	return func(h *Host) error {
		h.handler = hdl
		return nil
	}
}

// WithSessionConfig sets the SessionConfig packet sent to every newly
// accepted client, after its ConnectAccept.
func WithSessionConfig(cfg wire.SessionConfig) Option {
	return func(h *Host) error {
		h.sessionConfig = &cfg
		return nil
	}
}

// WithPacketTypeRegistry sets the PacketTypeRegistry packet sent to every
// newly accepted client, after its SessionConfig. Omit this option if the
// game defines no packet types beyond the core protocol's.
func WithPacketTypeRegistry(reg wire.PacketTypeRegistry) Option {
	return func(h *Host) error {
		h.packetRegistry = &reg
		return nil
	}
}
