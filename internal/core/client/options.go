package client

import "github.com/KohanMathers/ProjectNeon/internal/util/neonclock"

// Option configures a Client at construction.
type Option func(*Client) error

// WithClock overrides the Client's time source. Tests use
// neonclock.NewMock() to control ping RTT and timeout behavior
// deterministically.
func WithClock(c neonclock.Clock) Option {
	return func(cl *Client) error {
		cl.clock = c
		return nil
	}
}

// WithInstanceTag overrides the Client's auto-generated UUID instance tag.
func WithInstanceTag(tag string) Option {
	return func(cl *Client) error {
		cl.instance = tag
		return nil
	}
}

// WithHandler assigns the Client's event callbacks at construction.
func WithHandler(h Handler) Option {
	return func(cl *Client) error {
		cl.handler = h
		return nil
	}
}

// WithClientVersion overrides the client_version sent in ConnectRequest.
// Defaults to 1.
func WithClientVersion(v uint8) Option {
	return func(cl *Client) error {
		cl.clientVersion = v
		return nil
	}
}

// WithGameIdentifier sets the game_identifier sent in ConnectRequest.
func WithGameIdentifier(id uint32) Option {
	return func(cl *Client) error {
		cl.gameIdentifier = id
		return nil
	}
}

// WithAutoPing sets auto-ping at construction, equivalent to calling
// SetAutoPing(enabled) before the first ProcessPackets call.
func WithAutoPing(enabled bool) Option {
	return func(cl *Client) error {
		cl.autoPing = enabled
		return nil
	}
}

// WithRetryPolicy installs a bounded reconnect-on-timeout wrapper used by
// ConnectWithRetry. Connect itself ignores it and always makes exactly one
// attempt.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(cl *Client) error {
		cl.retryPolicy = &p
		return nil
	}
}

// WithOutstandingPingsCapacity overrides the bounded size of the
// outstanding-pings LRU. Defaults to 64.
func WithOutstandingPingsCapacity(n int) Option {
	return func(cl *Client) error {
		cl.outstandingPingsCapacity = n
		return nil
	}
}
