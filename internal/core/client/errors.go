package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionTimeout is returned by Connect when no ConnectAccept or
	// ConnectDeny arrives within the bound given.
	ErrConnectionTimeout = errors.New("client: connection timed out")

	// ErrNotConnected names a Client that has not completed Connect. No
	// function in this package returns it.
	ErrNotConnected = errors.New("client: not connected")

	// ErrClientClosed names a Client that has been freed. No function in
	// this package returns it.
	ErrClientClosed = errors.New("client: closed")
)

// ConnectDenyError is returned by Connect when the host replies with
// ConnectDeny. The Reason string is the host's own, not reinterpreted.
type ConnectDenyError struct {
	Reason string
}

func (e *ConnectDenyError) Error() string {
	return fmt.Sprintf("client: connect denied: %s", e.Reason)
}
