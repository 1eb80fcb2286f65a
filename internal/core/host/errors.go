package host

import "errors"

var (
	// ErrIDSpaceExhausted names the state in which every client_id in
	// [2, 255] is already assigned. No function in this package returns it:
	// the ID allocator reports exhaustion with a false ok value.
	ErrIDSpaceExhausted = errors.New("host: client id space exhausted")

	// ErrHostClosed names a Host that has been closed. No function in this
	// package returns it.
	ErrHostClosed = errors.New("host: closed")
)
