package transport

import "errors"

// ErrTimeout is returned by Socket.ReceiveFrom when a bounded wait elapses
// with no datagram received.
var ErrTimeout = errors.New("transport: receive timed out")

// ErrClosed is returned by Socket operations after Close.
var ErrClosed = errors.New("transport: socket closed")
