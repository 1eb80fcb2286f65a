package client

import "github.com/KohanMathers/ProjectNeon/pkg/wire"

// Handler groups a Client's event callbacks (spec.md §4.4, §6). Assign it
// once, via WithHandler or SetHandler, before the first ProcessPackets
// call; a nil field is simply not invoked for that event.
type Handler struct {
	// OnPong fires when a Ping this client sent is acknowledged.
	OnPong func(rttMillis int64, nowMillis uint64)

	// OnSessionConfig fires when the host publishes its SessionConfig.
	OnSessionConfig func(version uint8, tickRate uint16, maxPacketSize uint16)

	// OnPacketTypeRegistry fires when the host publishes a game-defined
	// packet type vocabulary.
	OnPacketTypeRegistry func(entries []wire.PacketTypeEntry)

	// OnUnhandledPacket fires for any packet_type this Client has no case
	// for: a core type with no client-side handler, or the game-defined
	// range.
	OnUnhandledPacket func(packetType wire.PacketType, fromClientID uint8)

	// OnWrongDestination fires when a received packet's destination_id is
	// neither broadcast (0) nor this client's own assigned ID.
	OnWrongDestination func(ownID uint8, destinationID uint8)
}
