// Package neonclock supplies the monotonic clock and wall-clock
// collaborators spec.md names as external to the core (ambient,
// millisecond-resolution time sources the relay/host/client depend on but
// do not implement themselves).
//
// Production code takes a *New() clock backed by the real wall clock;
// tests take clock.NewMock() so ping timeouts and keepalive intervals can
// be advanced deterministically instead of racing real time.
package neonclock

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the subset of benbjohnson/clock.Clock this module depends on.
// Re-exported here so callers only import this package, not clock directly.
type Clock = clock.Clock

// New returns a Clock backed by the real system clock.
func New() Clock {
	return clock.New()
}

// NewMock returns a controllable Clock for tests.
func NewMock() *clock.Mock {
	return clock.NewMock()
}

// NowMillis returns c.Now() as Unix milliseconds, the resolution spec.md's
// timestamp fields (Ping.timestamp, last_seen, last_ping_sent) are defined
// in.
func NowMillis(c Clock) uint64 {
	return uint64(c.Now().UnixMilli())
}

// MillisToTime converts a Unix-millisecond timestamp back to a time.Time,
// for computing elapsed durations against a Clock's current time.
func MillisToTime(ms uint64) time.Time {
	return time.UnixMilli(int64(ms))
}
