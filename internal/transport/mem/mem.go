// Package mem implements transport.Socket over an in-process hub, giving
// tests deterministic, portless packet delivery between named endpoints.
// Modeled conceptually on the in-memory transport found elsewhere in the
// example pack (a shared hub keyed by address, rather than a real socket).
package mem

import (
	"net"
	"sync"
	"time"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
)

// Addr is a mem transport address: an arbitrary string naming an endpoint
// in a particular Network.
type Addr string

func (a Addr) Network() string { return "mem" }
func (a Addr) String() string  { return string(a) }

// inboxSize bounds how many undelivered datagrams a Socket buffers before
// it starts dropping, which keeps a misbehaving sender from blocking the
// mem transport the way a slow reader under real UDP never does.
const inboxSize = 256

type packet struct {
	data []byte
	from net.Addr
}

// Network is a shared hub of mem Sockets, analogous to a LAN segment.
// Multiple Sockets created from the same Network can address each other by
// name; Sockets from different Networks cannot see each other.
type Network struct {
	mu      sync.Mutex
	sockets map[string]*Socket
}

// NewNetwork creates an empty hub.
func NewNetwork() *Network {
	return &Network{sockets: make(map[string]*Socket)}
}

// Listen creates a Socket bound to addr within n. addr must be unique
// within n.
func (n *Network) Listen(addr string) *Socket {
	s := &Socket{
		addr:    Addr(addr),
		network: n,
		inbox:   make(chan packet, inboxSize),
		closed:  make(chan struct{}),
	}
	n.mu.Lock()
	n.sockets[addr] = s
	n.mu.Unlock()
	return s
}

// Socket is a transport.Socket bound to one address within a Network.
type Socket struct {
	addr    Addr
	network *Network
	inbox   chan packet
	closed  chan struct{}
	closeMu sync.Mutex
}

// ReceiveFrom implements transport.Socket.
func (s *Socket) ReceiveFrom(timeout time.Duration) ([]byte, net.Addr, error) {
	switch {
	case timeout == transport.Blocking:
		select {
		case p := <-s.inbox:
			return p.data, p.from, nil
		case <-s.closed:
			return nil, nil, transport.ErrClosed
		}
	case timeout < 0:
		select {
		case p := <-s.inbox:
			return p.data, p.from, nil
		case <-s.closed:
			return nil, nil, transport.ErrClosed
		default:
			return nil, nil, transport.ErrTimeout
		}
	default:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case p := <-s.inbox:
			return p.data, p.from, nil
		case <-s.closed:
			return nil, nil, transport.ErrClosed
		case <-timer.C:
			return nil, nil, transport.ErrTimeout
		}
	}
}

// SendTo implements transport.Socket. Like a real UDP send, it is
// best-effort: sending to an address with no listening Socket, or to a
// Socket whose inbox is full, silently drops the datagram instead of
// erroring.
func (s *Socket) SendTo(data []byte, addr net.Addr) error {
	s.network.mu.Lock()
	dst, ok := s.network.sockets[addr.String()]
	s.network.mu.Unlock()
	if !ok {
		return nil
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	select {
	case dst.inbox <- packet{data: cp, from: s.addr}:
	default:
	}
	return nil
}

// LocalAddr implements transport.Socket.
func (s *Socket) LocalAddr() net.Addr {
	return s.addr
}

// Close implements transport.Socket.
func (s *Socket) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	select {
	case <-s.closed:
		return nil
	default:
		close(s.closed)
	}
	s.network.mu.Lock()
	delete(s.network.sockets, string(s.addr))
	s.network.mu.Unlock()
	return nil
}

var _ transport.Socket = (*Socket)(nil)
