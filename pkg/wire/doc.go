// Package wire defines Project Neon's on-the-wire packet format.
//
// A Neon datagram is a fixed 9-byte header followed by an opaque payload of
// up to 255 bytes. The header carries a magic/version gate, an intent code
// (packet_type), a per-sender sequence number, the sender's client ID, a
// destination ID, and the payload's length. Multi-byte integers are
// little-endian throughout; strings are a one-byte length prefix followed by
// UTF-8 bytes; lists are a one-byte count followed by that many entries.
//
// This package never interprets payload bytes for game-defined packet types
// (0x10-0xFF); those are round-tripped as opaque []byte.
package wire
