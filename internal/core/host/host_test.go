package host

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/transport/mem"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

const testSession uint32 = 12345

// connectReq sends a ConnectRequest from sock to hostAddr, the host's real
// bound address. In production this send would be relayed through the
// relay's forwarding logic; these tests bypass the relay and address the
// host directly, since host.go only cares about header fields and payload
// bytes, not which hop delivered them.
func connectReq(t *testing.T, sock *mem.Socket, hostAddr net.Addr, name string, seq uint16) {
	t.Helper()
	payload, err := wire.ConnectRequest{
		ClientVersion:   1,
		DesiredName:     name,
		TargetSessionID: testSession,
		GameIdentifier:  0,
	}.Encode()
	require.NoError(t, err)
	data, err := wire.Encode(wire.Header{
		Magic: wire.Magic, Version: wire.Version, PacketType: wire.PacketConnectRequest,
		Sequence: seq, ClientID: wire.UnassignedClientID, DestinationID: wire.DestinationHost,
	}, payload)
	require.NoError(t, err)
	require.NoError(t, sock.SendTo(data, hostAddr))
}

func receiveOrFail(t *testing.T, sock *mem.Socket) []byte {
	t.Helper()
	data, _, err := sock.ReceiveFrom(time.Second)
	require.NoError(t, err)
	return data
}

// newHarness wires a Host to a "relay" socket the test drives directly:
// relaySock is where the host's outbound packets land (since the host
// addresses everything to relayAddr), and hostAddr is where the test sends
// packets simulating traffic the relay would have forwarded.
func newHarness(t *testing.T) (h *Host, relaySock *mem.Socket, hostAddr net.Addr) {
	t.Helper()
	netw := mem.NewNetwork()
	relaySock = netw.Listen("relay")
	hostSock := netw.Listen("host")
	hostAddr = hostSock.LocalAddr()

	var err error
	h, err = New(hostSock, testSession, relaySock.LocalAddr())
	require.NoError(t, err)

	// Drain the host's own self-registration ConnectRequest, sent during New.
	receiveOrFail(t, relaySock)

	h.Start()
	t.Cleanup(func() { h.Close() })
	return h, relaySock, hostAddr
}

func TestSingleClientConnectAssignsIDTwoAndSendsSessionConfig(t *testing.T) {
	netw := mem.NewNetwork()
	relaySock := netw.Listen("relay")
	hostSock := netw.Listen("host")

	h, err := New(hostSock, testSession, relaySock.LocalAddr(), WithSessionConfig(wire.SessionConfig{
		Version: 1, TickRate: 60, MaxPacketSize: 1200,
	}))
	require.NoError(t, err)
	receiveOrFail(t, relaySock) // self-registration

	var connected []uint8
	h.SetHandler(Handler{
		OnClientConnect: func(id uint8, name string, sessionID uint32) { connected = append(connected, id) },
	})
	h.Start()
	defer h.Close()

	connectReq(t, relaySock, hostSock.LocalAddr(), "Alice", 0)

	accept := receiveOrFail(t, relaySock)
	_, payload, err := wire.Decode(accept)
	require.NoError(t, err)
	gotAccept, err := wire.DecodeConnectAccept(payload)
	require.NoError(t, err)
	assert.EqualValues(t, 2, gotAccept.AssignedClientID)
	assert.Equal(t, testSession, gotAccept.SessionID)

	cfg := receiveOrFail(t, relaySock)
	cfgHdr, cfgPayload, err := wire.Decode(cfg)
	require.NoError(t, err)
	assert.Equal(t, wire.PacketSessionConfig, cfgHdr.PacketType)
	gotCfg, err := wire.DecodeSessionConfig(cfgPayload)
	require.NoError(t, err)
	assert.EqualValues(t, 60, gotCfg.TickRate)
	assert.EqualValues(t, 1200, gotCfg.MaxPacketSize)

	require.Eventually(t, func() bool { return len(connected) == 1 && connected[0] == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, h.ClientCount())
}

func TestSequentialConnectsAssignIncreasingIDs(t *testing.T) {
	h, relaySock, hostAddr := newHarness(t)

	names := []string{"Alice", "Bob", "Carol"}
	var ids []uint8
	for i, name := range names {
		connectReq(t, relaySock, hostAddr, name, uint16(i))
		accept := receiveOrFail(t, relaySock)
		_, payload, err := wire.Decode(accept)
		require.NoError(t, err)
		got, err := wire.DecodeConnectAccept(payload)
		require.NoError(t, err)
		ids = append(ids, got.AssignedClientID)
	}

	assert.Equal(t, []uint8{2, 3, 4}, ids)
	assert.Equal(t, 3, h.ClientCount())
}

func TestDisconnectFreesIDForLowestFreeFirstReuse(t *testing.T) {
	_, relaySock, hostAddr := newHarness(t)

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		connectReq(t, relaySock, hostAddr, name, uint16(i))
		receiveOrFail(t, relaySock)
	}

	// Bob (id 3) disconnects.
	notice, err := wire.Encode(wire.Header{
		Magic: wire.Magic, Version: wire.Version, PacketType: wire.PacketDisconnectNotice,
		ClientID: 3, DestinationID: wire.DestinationHost,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, relaySock.SendTo(notice, hostAddr))

	// Dave connects next. The mem transport's inbox is a FIFO channel and
	// the host loop is single-consumer, so the DisconnectNotice is always
	// processed before this request even though both sends are async.
	connectReq(t, relaySock, hostAddr, "Dave", 10)
	accept := receiveOrFail(t, relaySock)
	_, payload, err := wire.Decode(accept)
	require.NoError(t, err)
	got, err := wire.DecodeConnectAccept(payload)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.AssignedClientID)
}

func TestEmptyNameIsDenied(t *testing.T) {
	_, relaySock, hostAddr := newHarness(t)

	connectReq(t, relaySock, hostAddr, "", 0)

	deny := receiveOrFail(t, relaySock)
	hdr, payload, err := wire.Decode(deny)
	require.NoError(t, err)
	assert.Equal(t, wire.PacketConnectDeny, hdr.PacketType)
	gotDeny, err := wire.DecodeConnectDeny(payload)
	require.NoError(t, err)
	assert.Equal(t, reasonNameRequired, gotDeny.Reason)
}

func TestSessionFullIsDenied(t *testing.T) {
	h, relaySock, hostAddr := newHarness(t)

	// Exhaust every ID in [2, 255] directly through the allocator so the
	// test doesn't have to drive 254 connects through the wire.
	h.mu.Lock()
	for {
		if _, ok := h.ids.allocate(); !ok {
			break
		}
	}
	h.mu.Unlock()

	connectReq(t, relaySock, hostAddr, "Overflow", 0)

	deny := receiveOrFail(t, relaySock)
	_, payload, err := wire.Decode(deny)
	require.NoError(t, err)
	gotDeny, err := wire.DecodeConnectDeny(payload)
	require.NoError(t, err)
	assert.Equal(t, reasonSessionFull, gotDeny.Reason)
}

func TestPingIsAnsweredWithPong(t *testing.T) {
	_, relaySock, hostAddr := newHarness(t)

	connectReq(t, relaySock, hostAddr, "Alice", 0)
	receiveOrFail(t, relaySock) // ConnectAccept

	pingPayload, err := wire.Ping{Timestamp: 555}.Encode()
	require.NoError(t, err)
	ping, err := wire.Encode(wire.Header{
		Magic: wire.Magic, Version: wire.Version, PacketType: wire.PacketPing,
		ClientID: 2, DestinationID: wire.DestinationHost,
	}, pingPayload)
	require.NoError(t, err)
	require.NoError(t, relaySock.SendTo(ping, hostAddr))

	pong := receiveOrFail(t, relaySock)
	hdr, payload, err := wire.Decode(pong)
	require.NoError(t, err)
	assert.Equal(t, wire.PacketPong, hdr.PacketType)
	assert.EqualValues(t, 2, hdr.DestinationID)
	gotPong, err := wire.DecodePong(payload)
	require.NoError(t, err)
	assert.EqualValues(t, 555, gotPong.OriginalTimestamp)
}

func TestMisroutedDestinationIsDroppedSilently(t *testing.T) {
	h, relaySock, hostAddr := newHarness(t)

	bad, err := wire.Encode(wire.Header{
		Magic: wire.Magic, Version: wire.Version, PacketType: wire.PacketPing,
		ClientID: 5, DestinationID: 42,
	}, []byte{0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, relaySock.SendTo(bad, hostAddr))

	time.Sleep(50 * time.Millisecond)
	_, _, err = relaySock.ReceiveFrom(transport.NonBlocking)
	assert.ErrorIs(t, err, transport.ErrTimeout)
	assert.Equal(t, 0, h.ClientCount())
}

func TestUnhandledPacketTypeFiresEvent(t *testing.T) {
	netw := mem.NewNetwork()
	relaySock := netw.Listen("relay")
	hostSock := netw.Listen("host")

	h, err := New(hostSock, testSession, relaySock.LocalAddr())
	require.NoError(t, err)
	receiveOrFail(t, relaySock) // self-registration

	var gotType wire.PacketType
	var gotFrom uint8
	h.SetHandler(Handler{
		OnUnhandledPacket: func(pt wire.PacketType, from uint8) { gotType, gotFrom = pt, from },
	})
	h.Start()
	defer h.Close()

	connectReq(t, relaySock, hostSock.LocalAddr(), "Alice", 0)
	receiveOrFail(t, relaySock)

	unknown, err := wire.Encode(wire.Header{
		Magic: wire.Magic, Version: wire.Version, PacketType: 0x42,
		ClientID: 2, DestinationID: wire.DestinationHost,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, relaySock.SendTo(unknown, hostSock.LocalAddr()))

	require.Eventually(t, func() bool { return gotType == 0x42 && gotFrom == 2 }, time.Second, 5*time.Millisecond)
}
