package config

import (
	"errors"
	"time"
)

// HostConfig configures the neon-host-demo entrypoint.
type HostConfig struct {
	// ListenAddr is the UDP address the host binds, e.g. ":0" to let the
	// OS choose a port.
	ListenAddr string `json:"listen_addr"`

	// RelayAddr is the relay's UDP address this host registers with.
	RelayAddr string `json:"relay_addr"`

	// SessionID identifies the session this host owns.
	SessionID uint32 `json:"session_id"`

	// SessionConfigVersion, SessionTickRate and MaxPacketSize describe
	// the SessionConfig packet this host publishes to every accepted
	// client. SessionTickRate of 0 skips publishing SessionConfig
	// entirely.
	SessionConfigVersion uint8  `json:"session_config_version,omitempty"`
	SessionTickRate      uint16 `json:"session_tick_rate,omitempty"`
	MaxPacketSize        uint16 `json:"max_packet_size,omitempty"`

	// MetricsAddr is the HTTP address /metrics is served on. Empty
	// disables the metrics endpoint.
	MetricsAddr string `json:"metrics_addr,omitempty"`

	// StatsInterval is how often the host logs a client-count summary.
	StatsInterval Duration `json:"stats_interval,omitempty"`
}

// DefaultHostConfig returns a HostConfig suitable for local development.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		ListenAddr:           ":0",
		RelayAddr:            "127.0.0.1:7777",
		SessionID:            1,
		SessionConfigVersion: 1,
		SessionTickRate:      20,
		MaxPacketSize:        255,
		MetricsAddr:          ":9101",
		StatsInterval:        Duration(30 * time.Second),
	}
}

// Validate checks the HostConfig is well-formed.
func (c HostConfig) Validate() error {
	if c.RelayAddr == "" {
		return errors.New("host: relay_addr must not be empty")
	}
	if c.SessionID == 0 {
		return errors.New("host: session_id must be nonzero")
	}
	if c.StatsInterval < 0 {
		return errors.New("host: stats_interval must be >= 0")
	}
	return nil
}
