package config

import (
	"errors"
	"time"
)

// ClientConfig configures the neon-client-demo entrypoint.
type ClientConfig struct {
	// ListenAddr is the UDP address the client binds, e.g. ":0".
	ListenAddr string `json:"listen_addr"`

	// RelayAddr is the relay's UDP address to connect through.
	RelayAddr string `json:"relay_addr"`

	// SessionID identifies the session to join.
	SessionID uint32 `json:"session_id"`

	// Name is the desired display name sent in ConnectRequest.
	Name string `json:"name"`

	// ClientVersion and GameIdentifier are sent in ConnectRequest.
	ClientVersion  uint8  `json:"client_version,omitempty"`
	GameIdentifier uint32 `json:"game_identifier,omitempty"`

	// ConnectTimeout bounds the initial Connect handshake.
	ConnectTimeout Duration `json:"connect_timeout,omitempty"`

	// AutoPing enables the client's periodic keepalive ping.
	AutoPing bool `json:"auto_ping"`

	// Retry, if non-nil, installs a bounded reconnect-on-timeout policy
	// for ConnectWithRetry. Nil means a single connect attempt.
	Retry *RetryConfig `json:"retry,omitempty"`
}

// RetryConfig mirrors client.RetryPolicy in a JSON-friendly shape.
type RetryConfig struct {
	MaxAttempts int      `json:"max_attempts"`
	Backoff     Duration `json:"backoff"`
}

// DefaultClientConfig returns a ClientConfig suitable for local development.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ListenAddr:     ":0",
		RelayAddr:      "127.0.0.1:7777",
		SessionID:      1,
		Name:           "player",
		ClientVersion:  1,
		ConnectTimeout: Duration(5 * time.Second),
		AutoPing:       true,
	}
}

// Validate checks the ClientConfig is well-formed.
func (c ClientConfig) Validate() error {
	if c.RelayAddr == "" {
		return errors.New("client: relay_addr must not be empty")
	}
	if c.SessionID == 0 {
		return errors.New("client: session_id must be nonzero")
	}
	if c.Name == "" {
		return errors.New("client: name must not be empty")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("client: connect_timeout must be > 0")
	}
	if c.Retry != nil {
		if c.Retry.MaxAttempts < 1 {
			return errors.New("client: retry.max_attempts must be >= 1")
		}
		if c.Retry.Backoff < 0 {
			return errors.New("client: retry.backoff must be >= 0")
		}
	}
	return nil
}
