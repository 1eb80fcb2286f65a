package client

import "time"

// RetryPolicy is an opt-in, bounded reconnect-on-timeout wrapper around
// Connect. It has no wire representation; spec.md §4.4 describes a single
// bounded connect attempt but does not forbid this as an additive client
// behavior (see SPEC_FULL.md's SUPPLEMENTED FEATURES).
type RetryPolicy struct {
	// MaxAttempts bounds how many times Connect is tried in total,
	// including the first. Zero means no retries (a single attempt).
	MaxAttempts int

	// Backoff is the delay between attempts.
	Backoff time.Duration
}
