package wire

import "errors"

// Wire errors are local to encode/decode. Per the relay/host/client dispatch
// policy, any of these causes the offending datagram to be dropped silently;
// they are never surfaced to the embedding application except through a
// debug counter.
var (
	// ErrTooShort is returned when a buffer is smaller than the 9-byte header.
	ErrTooShort = errors.New("wire: packet too short")

	// ErrBadMagic is returned when the header's magic field is not 0x4E45.
	ErrBadMagic = errors.New("wire: bad magic")

	// ErrUnsupportedVersion is returned when the header's version byte does
	// not match the implementation's single supported version.
	ErrUnsupportedVersion = errors.New("wire: unsupported version")

	// ErrTruncatedPayload is returned when fewer bytes remain than payload_len
	// declares.
	ErrTruncatedPayload = errors.New("wire: truncated payload")

	// ErrPayloadTooLarge is returned by Encode when the payload exceeds 255
	// bytes.
	ErrPayloadTooLarge = errors.New("wire: payload too large")

	// ErrStringTooLong is returned when encoding a string whose UTF-8
	// representation exceeds 255 bytes.
	ErrStringTooLong = errors.New("wire: string too long")

	// ErrMalformedPayload is returned when a known packet type's payload
	// does not match its deterministic encoding.
	ErrMalformedPayload = errors.New("wire: malformed payload")

	// ErrListTooLong is returned when encoding a counted list of more than
	// 255 entries.
	ErrListTooLong = errors.New("wire: list too long")
)
