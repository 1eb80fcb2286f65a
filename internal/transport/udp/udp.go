// Package udp implements transport.Socket over a real net.UDPConn.
package udp

import (
	"errors"
	"net"
	"time"

	"github.com/KohanMathers/ProjectNeon/internal/transport"
)

// maxDatagramSize bounds a single read. A Neon datagram is at most
// wire.HeaderSize+wire.MaxPayloadSize (264) bytes; this is generous
// headroom in case a misbehaving peer sends something larger, which Decode
// will reject anyway.
const maxDatagramSize = 2048

// Socket is a transport.Socket backed by a bound UDP port.
type Socket struct {
	conn *net.UDPConn
}

// Listen binds a UDP socket at addr (host:port, e.g. "0.0.0.0:7777").
func Listen(addr string) (*Socket, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return &Socket{conn: conn}, nil
}

// ReceiveFrom implements transport.Socket.
func (s *Socket) ReceiveFrom(timeout time.Duration) ([]byte, net.Addr, error) {
	switch {
	case timeout == transport.Blocking:
		if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
			return nil, nil, err
		}
	case timeout == transport.NonBlocking:
		if err := s.conn.SetReadDeadline(time.Now()); err != nil {
			return nil, nil, err
		}
	default:
		if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, nil, err
		}
	}

	buf := make([]byte, maxDatagramSize)
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, nil, transport.ErrClosed
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil, transport.ErrTimeout
		}
		return nil, nil, err
	}
	return buf[:n], addr, nil
}

// SendTo implements transport.Socket.
func (s *Socket) SendTo(data []byte, addr net.Addr) error {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp", addr.String())
		if err != nil {
			return err
		}
		udpAddr = resolved
	}
	_, err := s.conn.WriteToUDP(data, udpAddr)
	return err
}

// LocalAddr implements transport.Socket.
func (s *Socket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close implements transport.Socket.
func (s *Socket) Close() error {
	return s.conn.Close()
}

var _ transport.Socket = (*Socket)(nil)
