package relay

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	temperr "github.com/jbenet/go-temp-err-catcher"
	"github.com/jbenet/goprocess"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
	"github.com/KohanMathers/ProjectNeon/internal/util/logger"
	"github.com/KohanMathers/ProjectNeon/internal/util/neonclock"
	"github.com/KohanMathers/ProjectNeon/pkg/wire"
)

var log = logger.Logger("relay")

// Server is the stateless forwarding process described in spec.md §4.2: it
// owns a session table and a receive-decode-route loop over one datagram
// socket. It parses a ConnectRequest's session_id out of its payload
// (unavoidable, since session_id has no header field) but otherwise treats
// every payload as opaque and routes by header fields alone.
type Server struct {
	socket     transport.Socket
	table      *Table
	clock      neonclock.Clock
	registerer prometheus.Registerer
	instance   string
	metrics    *metrics

	mu        sync.Mutex
	lastError string

	proc goprocess.Process
}

// NewServer creates a Server bound to socket. The socket is owned by the
// Server from this point on: Close closes it.
func NewServer(socket transport.Socket, opts ...Option) (*Server, error) {
	s := &Server{
		socket:   socket,
		table:    NewTable(),
		clock:    neonclock.New(),
		instance: uuid.New().String(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.metrics = newMetrics(s.registerer, s.instance)
	return s, nil
}

// LastError returns the most recent transport-level error message recorded
// by this Server, per spec.md §7's "thread-local last error". It is
// implemented as an instance field rather than true thread-local storage;
// see SPEC_FULL.md's Open Question resolutions for why that is equivalent
// here (a Server owns exactly one receive goroutine for its lifetime).
func (s *Server) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Server) setLastError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// SessionCount returns the number of materialized sessions.
func (s *Server) SessionCount() int {
	return s.table.SessionCount()
}

// Run starts the blocking receive loop in its own goroutine and returns a
// goprocess.Process representing it. Call Close to stop it.
func (s *Server) Run() goprocess.Process {
	s.proc = goprocess.Go(func(proc goprocess.Process) {
		s.loop()
	})
	return s.proc
}

// Close stops the receive loop by closing the underlying socket and waits
// for the loop goroutine to exit.
func (s *Server) Close() error {
	err := s.socket.Close()
	if s.proc != nil {
		<-s.proc.Closed()
	}
	return err
}

func (s *Server) loop() {
	var errs temperr.TempErrCatcher
	for {
		data, from, err := s.socket.ReceiveFrom(transport.Blocking)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				log.Info("relay socket closed, stopping")
				return
			}
			if errs.IsTemporary(err) {
				log.Warn("temporary receive error, retrying", "err", err)
				continue
			}
			s.setLastError(err.Error())
			log.Error("receive failed, stopping relay loop", "err", err)
			return
		}
		s.handleDatagram(data, from)
	}
}

// handleDatagram validates the header and dispatches per spec.md §4.2.
func (s *Server) handleDatagram(data []byte, from net.Addr) {
	hdr, err := wire.DecodeHeader(data)
	if err != nil {
		s.metrics.dropped("too_short")
		return
	}
	if hdr.Magic != wire.Magic {
		s.metrics.dropped("bad_magic")
		return
	}
	if hdr.Version != wire.Version {
		s.metrics.dropped("unsupported_version")
		return
	}
	if len(data) < wire.HeaderSize+int(hdr.PayloadLen) {
		s.metrics.dropped("truncated_payload")
		return
	}

	now := s.clock.Now()

	if hdr.PacketType == wire.PacketConnectRequest {
		s.handleConnectRequest(hdr, from, now, data)
		return
	}

	s.route(hdr, from, data)
}

// handleConnectRequest implements spec.md §4.2 rule 1: a ConnectRequest
// whose header client_id is the host sentinel (1) registers the sender as
// that session's host; any other ConnectRequest (client_id 0, an ordinary
// client seeking the host) is forwarded to the session's host, and the
// sender's address is queued so the host's upcoming ConnectAccept can be
// routed back to it (see queuePendingClient's doc comment).
func (s *Server) handleConnectRequest(hdr wire.Header, from net.Addr, now time.Time, data []byte) {
	payload := data[wire.HeaderSize : wire.HeaderSize+int(hdr.PayloadLen)]
	req, err := wire.DecodeConnectRequest(payload)
	if err != nil {
		s.metrics.dropped("malformed_connect_request")
		return
	}

	if hdr.ClientID == wireHostID {
		s.table.RegisterHost(req.TargetSessionID, from, now)
		s.metrics.sessionsActive.Set(float64(s.table.SessionCount()))
		log.Info("host registered", "session", req.TargetSessionID, "addr", from)
		return
	}

	host, ok := s.table.Participant(req.TargetSessionID, wireHostID)
	if !ok {
		s.metrics.dropped("no_host_for_session")
		log.Debug("connect request for session with no host", "session", req.TargetSessionID)
		return
	}

	s.table.queuePendingClient(req.TargetSessionID, from)
	if err := s.socket.SendTo(data, host.Addr); err != nil {
		log.Debug("forward connect request to host failed", "err", err)
		return
	}
	s.metrics.packetsForwarded.Inc()
}

// route implements spec.md §4.2 rule 2 (and rule 3's post-forward cleanup):
// look up the sender's session by address, then dispatch on destination_id.
func (s *Server) route(hdr wire.Header, from net.Addr, data []byte) {
	sessionID, ok := s.table.SessionOf(from)
	if !ok {
		s.metrics.dropped("unknown_sender")
		return
	}

	switch hdr.DestinationID {
	case wire.DestinationBroadcast:
		s.broadcast(sessionID, from, data)
	case wire.DestinationHost:
		s.forwardToParticipant(sessionID, wireHostID, from, data, true)
	default:
		// ConnectDeny addresses a pending client that was never actually
		// assigned the ID it's being addressed by (see host.deny's doc
		// comment); deliver it once without registering a participant, or
		// the relay would keep a permanent table entry for a connection
		// that was refused.
		register := hdr.PacketType != wire.PacketConnectDeny
		s.forwardToParticipant(sessionID, hdr.DestinationID, from, data, register)
	}

	if hdr.PacketType == wire.PacketDisconnectNotice {
		s.table.Remove(sessionID, hdr.ClientID, from)
		s.metrics.sessionsActive.Set(float64(s.table.SessionCount()))
		log.Info("participant disconnected", "session", sessionID, "client_id", hdr.ClientID)
	}
}

// forwardToParticipant delivers data to the single participant destID
// within sessionID. If destID isn't registered yet but from is that
// session's host, the oldest address in the session's pending-client queue
// is promoted to destID — this is how a brand-new client's address, known
// to the relay only as "queued, no ID yet", acquires its ID the moment the
// host's ConnectAccept names it. When register is false (a ConnectDeny),
// the popped address is used for this one delivery only and never written
// into the session table.
func (s *Server) forwardToParticipant(sessionID uint32, destID uint8, from net.Addr, data []byte, register bool) {
	p, ok := s.table.Participant(sessionID, destID)
	if !ok {
		if host, hostOK := s.table.Participant(sessionID, wireHostID); hostOK && sameAddr(host.Addr, from) {
			if addr, popped := s.table.dequeuePendingClient(sessionID); popped {
				if register {
					s.table.Put(sessionID, destID, addr, s.clock.Now())
				}
				p, ok = &Participant{Addr: addr}, true
			}
		}
	}
	if !ok {
		s.metrics.dropped("unknown_destination")
		return
	}
	if err := s.socket.SendTo(data, p.Addr); err != nil {
		log.Debug("forward failed", "dest", destID, "err", err)
		return
	}
	s.metrics.packetsForwarded.Inc()
}

// broadcast delivers data to every participant in sessionID except the
// sender, best-effort: one failed send never stops the rest (spec.md §4.2,
// §7).
func (s *Server) broadcast(sessionID uint32, from net.Addr, data []byte) {
	participants := s.table.Participants(sessionID)
	var sendErrs error
	for id, p := range participants {
		if sameAddr(p.Addr, from) {
			continue
		}
		if err := s.socket.SendTo(data, p.Addr); err != nil {
			sendErrs = multierr.Append(sendErrs, fmt.Errorf("client %d: %w", id, err))
		}
	}
	if sendErrs != nil {
		log.Debug("broadcast had partial failures", "session", sessionID, "err", sendErrs)
	}
	s.metrics.packetsBroadcast.Inc()
}

func sameAddr(a, b net.Addr) bool {
	return a.String() == b.String()
}
