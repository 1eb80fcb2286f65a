package relay

import "errors"

var (
	// ErrServerClosed names a Server that has been closed. No function in
	// this package returns it: Run returns a goprocess.Process, and the
	// receive loop stops without an error once the socket is closed.
	ErrServerClosed = errors.New("relay: server closed")

	// ErrUnknownSession names a session_id the relay has no table for. No
	// function in this package returns it: Table lookups report a missing
	// session with a false ok value.
	ErrUnknownSession = errors.New("relay: unknown session")

	// ErrUnknownParticipant names a client_id not present in a session's
	// table. No function in this package returns it: Table.Participant
	// reports a missing entry with a false ok value.
	ErrUnknownParticipant = errors.New("relay: unknown participant")

	// ErrHostAlreadyRegistered names a ConnectRequest that claims client_id
	// 1 for a session that already has a host. No function in this package
	// returns it: such a request re-registers the sender as the host.
	ErrHostAlreadyRegistered = errors.New("relay: host already registered for session")
)
