package client

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
	"github.com/KohanMathers/ProjectNeon/internal/util/neonclock"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

var log = logger.Logger("client")

const defaultOutstandingPingsCapacity = 64

// autoPingInterval is spec.md §4.4's fixed 5000ms auto-ping cadence.
const autoPingInterval = 5000 * time.Millisecond

// encodable is the subset of a wire payload type's surface a Client needs
// to send it.
type encodable interface {
	Encode() ([]byte, error)
}

// Client is the connecting side of a Project Neon session (spec.md §4.4).
// It owns no goroutine of its own: ProcessPackets is a non-blocking drain
// the embedder calls from its own tick loop, per §9's "cooperative client"
// design note.
type Client struct {
	socket    transport.Socket
	relayAddr net.Addr

	name           string
	clientVersion  uint8
	gameIdentifier uint32

	clock       neonclock.Clock
	instance    string
	handler     Handler
	retryPolicy *RetryPolicy

	outstandingPingsCapacity int

	mu               sync.Mutex
	ownID            uint8
	sessionID        uint32
	connected        bool
	seq              uint16
	autoPing         bool
	lastPingSent     time.Time
	outstandingPings *lru.Cache[uint64, time.Time]
	lastError        string
}

// New creates local client state under name. No network activity happens
// until Connect, per spec.md §4.4's new(name).
func New(name string, opts ...Option) (*Client, error) {
	c := &Client{
		name:          name,
		clientVersion: 1,
		clock:         neonclock.New(),
		instance:      uuid.New().String(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.outstandingPingsCapacity <= 0 {
		c.outstandingPingsCapacity = defaultOutstandingPingsCapacity
	}
	cache, err := lru.New[uint64, time.Time](c.outstandingPingsCapacity)
	if err != nil {
		return nil, err
	}
	c.outstandingPings = cache
	return c, nil
}

// SetHandler assigns the Client's event callbacks. Call it before the
// first ProcessPackets call; the drain reads it without synchronization
// once live (spec.md §5).
func (c *Client) SetHandler(h Handler) {
	c.handler = h
}

// OwnID returns the client_id this Client was assigned, or 0 if not yet
// connected.
func (c *Client) OwnID() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownID
}

// SessionID returns the session this Client is connected to.
func (c *Client) SessionID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Connected reports whether Connect has completed successfully.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LastError returns the most recent transport-level error message
// recorded by this Client (spec.md §7's "thread-local last error"; see
// relay.Server.LastError's doc comment for why an instance field is
// equivalent here).
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

// Connect binds socket, sends a ConnectRequest for sessionID to relayAddr,
// and blocks (bounded by timeout) for a ConnectAccept or ConnectDeny, per
// spec.md §4.4's connect(). Exactly one attempt is made; see
// ConnectWithRetry for the opt-in bounded-retry wrapper.
func (c *Client) Connect(socket transport.Socket, sessionID uint32, relayAddr net.Addr, timeout time.Duration) error {
	c.socket = socket
	c.relayAddr = relayAddr

	req := wire.ConnectRequest{
		ClientVersion:   c.clientVersion,
		DesiredName:     c.name,
		TargetSessionID: sessionID,
		GameIdentifier:  c.gameIdentifier,
	}
	if err := c.send(wire.DestinationHost, wire.PacketConnectRequest, req); err != nil {
		c.setLastError(err.Error())
		return err
	}

	deadline := c.clock.Now().Add(timeout)
	for {
		remaining := deadline.Sub(c.clock.Now())
		if remaining <= 0 {
			return ErrConnectionTimeout
		}
		data, _, err := socket.ReceiveFrom(remaining)
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				return ErrConnectionTimeout
			}
			c.setLastError(err.Error())
			return err
		}

		hdr, payload, err := wire.Decode(data)
		if err != nil {
			continue
		}

		switch hdr.PacketType {
		case wire.PacketConnectAccept:
			accept, err := wire.DecodeConnectAccept(payload)
			if err != nil {
				continue
			}
			c.mu.Lock()
			c.ownID = accept.AssignedClientID
			c.sessionID = accept.SessionID
			c.connected = true
			c.mu.Unlock()
			log.Info("connected", "client_id", accept.AssignedClientID, "session", accept.SessionID)
			return nil
		case wire.PacketConnectDeny:
			deny, err := wire.DecodeConnectDeny(payload)
			if err != nil {
				continue
			}
			return &ConnectDenyError{Reason: deny.Reason}
		}
		// Anything else arriving before the accept/deny reply is ignored;
		// only the host's direct response to this request settles Connect.
	}
}

// ConnectWithRetry calls Connect, retrying on ErrConnectionTimeout up to
// the installed RetryPolicy's MaxAttempts, sleeping Backoff between
// attempts. A ConnectDeny is final and is never retried. If no
// RetryPolicy was installed via WithRetryPolicy, this behaves exactly
// like a single Connect call.
func (c *Client) ConnectWithRetry(socket transport.Socket, sessionID uint32, relayAddr net.Addr, timeout time.Duration) error {
	attempts := 1
	var backoff time.Duration
	if c.retryPolicy != nil {
		attempts = c.retryPolicy.MaxAttempts
		if attempts < 1 {
			attempts = 1
		}
		backoff = c.retryPolicy.Backoff
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = c.Connect(socket, sessionID, relayAddr, timeout)
		if err == nil || !errors.Is(err, ErrConnectionTimeout) {
			return err
		}
		if attempt < attempts-1 && backoff > 0 {
			time.Sleep(backoff)
		}
	}
	return err
}

// ProcessPackets is the non-blocking drain described in spec.md §4.4:
// every packet currently queued is decoded and dispatched, then, if
// auto-ping is enabled and the interval has elapsed, a new Ping is sent.
// The embedder calls this from its own tick loop; no background goroutine
// is involved.
func (c *Client) ProcessPackets() {
	for {
		data, _, err := c.socket.ReceiveFrom(transport.NonBlocking)
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				break
			}
			if errors.Is(err, transport.ErrClosed) {
				return
			}
			c.setLastError(err.Error())
			break
		}
		c.handleDatagram(data)
	}
	c.maybeAutoPing()
}

func (c *Client) handleDatagram(data []byte) {
	hdr, payload, err := wire.Decode(data)
	if err != nil {
		return
	}

	c.mu.Lock()
	ownID := c.ownID
	c.mu.Unlock()

	if hdr.DestinationID != wire.DestinationBroadcast && hdr.DestinationID != ownID {
		if c.handler.OnWrongDestination != nil {
			c.handler.OnWrongDestination(ownID, hdr.DestinationID)
		}
		return
	}

	switch hdr.PacketType {
	case wire.PacketSessionConfig:
		cfg, err := wire.DecodeSessionConfig(payload)
		if err != nil {
			return
		}
		if c.handler.OnSessionConfig != nil {
			c.handler.OnSessionConfig(cfg.Version, cfg.TickRate, cfg.MaxPacketSize)
		}
	case wire.PacketTypeRegistryPacket:
		reg, err := wire.DecodePacketTypeRegistry(payload)
		if err != nil {
			return
		}
		if c.handler.OnPacketTypeRegistry != nil {
			c.handler.OnPacketTypeRegistry(reg.Entries)
		}
	case wire.PacketPong:
		pong, err := wire.DecodePong(payload)
		if err != nil {
			return
		}
		c.mu.Lock()
		sendTime, ok := c.outstandingPings.Get(pong.OriginalTimestamp)
		if ok {
			c.outstandingPings.Remove(pong.OriginalTimestamp)
		}
		c.mu.Unlock()
		if !ok {
			return
		}
		now := c.clock.Now()
		if c.handler.OnPong != nil {
			c.handler.OnPong(now.Sub(sendTime).Milliseconds(), uint64(now.UnixMilli()))
		}
	default:
		if c.handler.OnUnhandledPacket != nil {
			c.handler.OnUnhandledPacket(hdr.PacketType, hdr.ClientID)
		}
	}
}

// SendPing emits a Ping addressed to the host and records its timestamp
// in outstandingPings, per spec.md §4.4's send_ping().
func (c *Client) SendPing() error {
	now := c.clock.Now()
	ts := uint64(now.UnixMilli())
	if err := c.send(wire.DestinationHost, wire.PacketPing, wire.Ping{Timestamp: ts}); err != nil {
		return err
	}
	c.mu.Lock()
	c.outstandingPings.Add(ts, now)
	c.lastPingSent = now
	c.mu.Unlock()
	return nil
}

func (c *Client) maybeAutoPing() {
	c.mu.Lock()
	enabled := c.autoPing
	elapsed := c.clock.Now().Sub(c.lastPingSent)
	c.mu.Unlock()
	if enabled && elapsed >= autoPingInterval {
		if err := c.SendPing(); err != nil {
			log.Debug("auto ping failed", "err", err)
		}
	}
}

// SetAutoPing toggles the auto-ping behavior described in spec.md §4.4.
func (c *Client) SetAutoPing(enabled bool) {
	c.mu.Lock()
	c.autoPing = enabled
	c.mu.Unlock()
}

// Free best-effort notifies the host and releases the underlying socket,
// per spec.md §4.4's free().
func (c *Client) Free() error {
	if err := c.send(wire.DestinationHost, wire.PacketDisconnectNotice, wire.DisconnectNotice{}); err != nil {
		log.Debug("send disconnect notice failed", "err", err)
	}
	return c.socket.Close()
}

func (c *Client) send(destinationID uint8, packetType wire.PacketType, payload encodable) error {
	body, err := payload.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	seq := c.seq
	c.seq++
	clientID := c.ownID
	c.mu.Unlock()

	hdr := wire.Header{
		Magic:         wire.Magic,
		Version:       wire.Version,
		PacketType:    packetType,
		Sequence:      seq,
		ClientID:      clientID,
		DestinationID: destinationID,
	}
	data, err := wire.Encode(hdr, body)
	if err != nil {
		return err
	}
	return c.socket.SendTo(data, c.relayAddr)
}
