package host

import (
	"errors"
	"net"
	"sync"

	temperr "github.com/jbenet/go-temp-err-catcher"
	"github.com/jbenet/goprocess"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
	"github.com/KohanMathers/ProjectNeon/internal/util/neonclock"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

var log = logger.Logger("host")

// wireHostID mirrors wire.HostClientID; kept local to avoid every method in
// this package importing pkg/wire just for one constant.
const wireHostID uint8 = 1

const (
	reasonNameRequired = "name required"
	reasonSessionFull  = "session full"
)

// encodable is the subset of a wire payload type's surface a Host needs to
// send it; every payload struct in pkg/wire already satisfies this.
type encodable interface {
	Encode() ([]byte, error)
}

// Host is the accepting side of a Project Neon session (spec.md §4.3): it
// owns client_id 1, assigns IDs to connecting clients, and answers pings.
// It talks to the relay exclusively via header.destination_id; the raw
// transport address every datagram arrives from is the relay's own, not a
// client's, and is never used for routing.
type Host struct {
	socket    transport.Socket
	sessionID uint32
	relayAddr net.Addr

	clock      neonclock.Clock
	registerer prometheus.Registerer
	instance   string
	metrics    *metrics

	sessionConfig  *wire.SessionConfig
	packetRegistry *wire.PacketTypeRegistry

	handler Handler

	mu           sync.Mutex
	participants map[uint8]*Participant
	ids          *idAllocator
	seq          uint16
	lastError    string

	proc goprocess.Process
}

// New binds to socket, sends the host's own ConnectRequest (client_id 1,
// desired_name "") to relayAddr to register sessionID, and seeds the
// participant table with itself, per spec.md §4.3's new(session_id,
// relay_addr).
func New(socket transport.Socket, sessionID uint32, relayAddr net.Addr, opts ...Option) (*Host, error) {
	h := &Host{
		socket:       socket,
		sessionID:    sessionID,
		relayAddr:    relayAddr,
		clock:        neonclock.New(),
		instance:     uuid.New().String(),
		participants: make(map[uint8]*Participant),
		ids:          newIDAllocator(),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	h.metrics = newMetrics(h.registerer, h.instance)

	now := h.clock.Now()
	h.participants[wireHostID] = &Participant{ClientID: wireHostID, Addr: relayAddr, LastPing: now}

	req := wire.ConnectRequest{ClientVersion: 1, DesiredName: "", TargetSessionID: sessionID, GameIdentifier: 0}
	if err := h.send(wire.DestinationHost, wire.PacketConnectRequest, req); err != nil {
		return nil, err
	}
	return h, nil
}

// SetHandler assigns the Host's event callbacks. Call it before Start; the
// run loop reads it without synchronization once live (spec.md §5).
func (h *Host) SetHandler(hdl Handler) {
	h.handler = hdl
}

// SessionID returns the session this Host registered with the relay.
func (h *Host) SessionID() uint32 {
	return h.sessionID
}

// ClientCount returns the number of accepted clients, excluding the host
// itself.
func (h *Host) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.participants) - 1
}

// LastError returns the most recent transport-level error message recorded
// by this Host (spec.md §7's "thread-local last error"; see
// relay.Server.LastError's doc comment for why an instance field is
// equivalent here).
func (h *Host) LastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastError
}

func (h *Host) setLastError(msg string) {
	h.mu.Lock()
	h.lastError = msg
	h.mu.Unlock()
}

// Start begins the blocking receive loop in its own goroutine, per spec.md
// §4.3's start(): receive, decode, dispatch, repeat. Call Close to stop it.
func (h *Host) Start() goprocess.Process {
	h.proc = goprocess.Go(func(proc goprocess.Process) {
		h.loop()
	})
	return h.proc
}

// Close stops the receive loop by closing the underlying socket and waits
// for the loop goroutine to exit.
func (h *Host) Close() error {
	err := h.socket.Close()
	if h.proc != nil {
		<-h.proc.Closed()
	}
	return err
}

func (h *Host) loop() {
	var errs temperr.TempErrCatcher
	for {
		data, _, err := h.socket.ReceiveFrom(transport.Blocking)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				log.Info("host socket closed, stopping")
				return
			}
			if errs.IsTemporary(err) {
				log.Warn("temporary receive error, retrying", "err", err)
				continue
			}
			h.setLastError(err.Error())
			log.Error("receive failed, stopping host loop", "err", err)
			return
		}
		h.handleDatagram(data)
	}
}

// handleDatagram decodes and dispatches one datagram per the state machine
// in spec.md §4.3. Every packet a Host receives arrives via the relay, so
// its header's destination_id names who it was meant for, not where it
// physically came from.
func (h *Host) handleDatagram(data []byte) {
	hdr, payload, err := wire.Decode(data)
	if err != nil {
		return
	}
	if hdr.DestinationID != wire.DestinationBroadcast && hdr.DestinationID != wire.DestinationHost {
		// Misrouted: the relay should never deliver a packet addressed to
		// someone else to this socket. Drop silently (spec.md §4.3).
		return
	}

	switch hdr.PacketType {
	case wire.PacketConnectRequest:
		h.handleConnectRequest(payload)
	case wire.PacketPing:
		h.handlePing(hdr, payload)
	case wire.PacketDisconnectNotice:
		h.handleDisconnectNotice(hdr)
	default:
		if h.handler.OnUnhandledPacket != nil {
			h.handler.OnUnhandledPacket(hdr.PacketType, hdr.ClientID)
		}
	}
}

func (h *Host) handleConnectRequest(payload []byte) {
	req, err := wire.DecodeConnectRequest(payload)
	if err != nil {
		return
	}

	if req.DesiredName == "" {
		h.deny(req.DesiredName, reasonNameRequired)
		return
	}

	h.mu.Lock()
	id, ok := h.ids.allocate()
	if ok {
		h.participants[id] = &Participant{ClientID: id, DisplayName: req.DesiredName, LastPing: h.clock.Now()}
	}
	h.mu.Unlock()

	if !ok {
		h.deny(req.DesiredName, reasonSessionFull)
		return
	}

	h.metrics.connectsAccepted.Inc()
	log.Info("client connected", "client_id", id, "name", req.DesiredName)

	if err := h.send(id, wire.PacketConnectAccept, wire.ConnectAccept{AssignedClientID: id, SessionID: h.sessionID}); err != nil {
		log.Debug("send connect accept failed", "err", err)
	}
	if h.sessionConfig != nil {
		if err := h.send(id, wire.PacketSessionConfig, *h.sessionConfig); err != nil {
			log.Debug("send session config failed", "err", err)
		}
	}
	if h.packetRegistry != nil {
		if err := h.send(id, wire.PacketTypeRegistryPacket, *h.packetRegistry); err != nil {
			log.Debug("send packet type registry failed", "err", err)
		}
	}

	if h.handler.OnClientConnect != nil {
		h.handler.OnClientConnect(id, req.DesiredName, h.sessionID)
	}
}

// deny replies to a refused connect request. A denied client is never
// given a real client_id, but the relay still needs a non-sentinel
// destination_id to route the reply back through its pending-client
// queue (see relay.Server.forwardToParticipant). This borrows an ID from
// the allocator purely for addressing and frees it immediately after
// send: the relay is told (via packet_type) not to persist a participant
// entry for it, so the ID goes straight back into the free pool. When no ID
// is free, no ConnectDeny is sent; the denial is still logged, counted and
// reported through OnClientDeny.
func (h *Host) deny(name, reason string) {
	h.metrics.denied(reason)

	h.mu.Lock()
	addrID, ok := h.ids.allocate()
	h.mu.Unlock()
	if ok {
		if err := h.send(addrID, wire.PacketConnectDeny, wire.ConnectDeny{Reason: reason}); err != nil {
			log.Debug("send connect deny failed", "err", err)
		}
		h.mu.Lock()
		h.ids.free(addrID)
		h.mu.Unlock()
	} else {
		log.Warn("cannot address connect deny, id space exhausted", "name", name)
	}
	log.Info("client denied", "name", name, "reason", reason)
	if h.handler.OnClientDeny != nil {
		h.handler.OnClientDeny(name, reason)
	}
}

func (h *Host) handlePing(hdr wire.Header, payload []byte) {
	ping, err := wire.DecodePing(payload)
	if err != nil {
		return
	}
	if err := h.send(hdr.ClientID, wire.PacketPong, wire.Pong{OriginalTimestamp: ping.Timestamp}); err != nil {
		log.Debug("send pong failed", "err", err)
		return
	}
	h.metrics.pingsAnswered.Inc()

	h.mu.Lock()
	if p, ok := h.participants[hdr.ClientID]; ok {
		p.LastPing = h.clock.Now()
	}
	h.mu.Unlock()

	if h.handler.OnPingReceived != nil {
		h.handler.OnPingReceived(hdr.ClientID)
	}
}

func (h *Host) handleDisconnectNotice(hdr wire.Header) {
	h.mu.Lock()
	delete(h.participants, hdr.ClientID)
	h.ids.free(hdr.ClientID)
	h.mu.Unlock()
	log.Info("client disconnected", "client_id", hdr.ClientID)
}

// send encodes a payload addressed to destinationID and transmits it to the
// relay; the relay, not this Host, resolves destinationID to a transport
// address.
func (h *Host) send(destinationID uint8, packetType wire.PacketType, payload encodable) error {
	body, err := payload.Encode()
	if err != nil {
		return err
	}
	h.mu.Lock()
	seq := h.seq
	h.seq++
	h.mu.Unlock()

	hdr := wire.Header{
		Magic:         wire.Magic,
		Version:       wire.Version,
		PacketType:    packetType,
		Sequence:      seq,
		ClientID:      wireHostID,
		DestinationID: destinationID,
	}
	data, err := wire.Encode(hdr, body)
	if err != nil {
		return err
	}
	return h.socket.SendTo(data, h.relayAddr)
}
