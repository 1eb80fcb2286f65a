package wire

// Magic identifies a Neon datagram. Encoded little-endian, its wire bytes
// are 0x45, 0x4E.
const Magic uint16 = 0x4E45

// Version is the single protocol version this implementation speaks.
// Packets whose header version differs are rejected with
// ErrUnsupportedVersion.
const Version uint8 = 1

// HeaderSize is the fixed size, in bytes, of a Neon packet header.
const HeaderSize = 9

// MaxPayloadSize is the largest payload a header's one-byte payload_len
// field can describe.
const MaxPayloadSize = 255

// PacketType is the header's intent code. Codes 0x01-0x0F are reserved for
// connection management (see IsCore); 0x10-0xFF are opaque to this
// package and left for games to define.
type PacketType uint8

// Core packet type codes, reserved 0x01-0x0F.
const (
	PacketConnectRequest     PacketType = 0x01
	PacketConnectAccept      PacketType = 0x02
	PacketConnectDeny        PacketType = 0x03
	PacketSessionConfig      PacketType = 0x04
	PacketTypeRegistryPacket PacketType = 0x05
	PacketPing               PacketType = 0x0B
	PacketPong               PacketType = 0x0C
	PacketDisconnectNotice   PacketType = 0x0D
)

// GameTypeRangeStart is the first packet_type value left to game-defined
// vocabularies.
const GameTypeRangeStart PacketType = 0x10

// IsGameDefined reports whether t falls in the opaque, game-defined range.
func (t PacketType) IsGameDefined() bool {
	return t >= GameTypeRangeStart
}

// IsCore reports whether t is one of the reserved connection-management
// codes (0x01-0x0F), including codes this implementation does not itself
// define a payload for.
func (t PacketType) IsCore() bool {
	return t >= 0x01 && t < GameTypeRangeStart
}

// Destination sentinel values for Header.DestinationID.
const (
	// DestinationBroadcast addresses every participant in the session
	// except the sender.
	DestinationBroadcast uint8 = 0
	// DestinationHost addresses the session's host (client_id 1).
	DestinationHost uint8 = 1
)

// UnassignedClientID is the client_id value a packet carries before the
// sender has been assigned an ID by the host (i.e. while connecting).
const UnassignedClientID uint8 = 0

// HostClientID is the client_id reserved for the session host.
const HostClientID uint8 = 1

// Header is the fixed 9-byte Neon packet header.
type Header struct {
	Magic         uint16
	Version       uint8
	PacketType    PacketType
	Sequence      uint16
	ClientID      uint8
	DestinationID uint8
	PayloadLen    uint8
}
