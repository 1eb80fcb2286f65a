package host

import "github.com/KohanMathers/ProjectNeon/pkg/wire"

// Handler groups a Host's event callbacks (spec.md §4.3, §6). Assign it
// once, either via WithHandler or SetHandler, before calling Start; the run
// loop reads it without synchronization, matching §5's single-writer rule.
// A nil field is simply not invoked for that event.
type Handler struct {
	// OnClientConnect fires after a client has been assigned an ID and the
	// ConnectAccept has been sent.
	OnClientConnect func(clientID uint8, name string, sessionID uint32)

	// OnClientDeny fires when a connect request is refused, either for an
	// empty name or an exhausted ID space.
	OnClientDeny func(name string, reason string)

	// OnPingReceived fires after a Pong has been sent in reply to a Ping.
	OnPingReceived func(fromClientID uint8)

	// OnUnhandledPacket fires for any packet_type this Host has no case
	// for: the game-defined range, core type 0x00, or any core type the
	// host doesn't itself dispatch.
	OnUnhandledPacket func(packetType wire.PacketType, fromClientID uint8)
}
