package wire

import (
	"bytes"
	"encoding/binary"
)

// ConnectRequest is the payload of PacketConnectRequest. It is sent both by
// a host registering its session with the relay (ClientID 0 in the header is
// not set in that case; the header's own ClientID field is 1) and by a
// client seeking a session's host (header ClientID 0).
type ConnectRequest struct {
	ClientVersion   uint8
	DesiredName     string
	TargetSessionID uint32
	GameIdentifier  uint32
}

// Encode returns ConnectRequest's deterministic payload encoding.
func (p ConnectRequest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(p.ClientVersion)
	var le [4]byte
	binary.LittleEndian.PutUint32(le[:], p.TargetSessionID)
	buf.Write(le[:])
	binary.LittleEndian.PutUint32(le[:], p.GameIdentifier)
	buf.Write(le[:])
	if err := writeString(&buf, p.DesiredName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeConnectRequest parses a ConnectRequest payload.
func DecodeConnectRequest(data []byte) (ConnectRequest, error) {
	if len(data) < 9 {
		return ConnectRequest{}, ErrMalformedPayload
	}
	r := bytes.NewReader(data)
	version, err := readByte(r)
	if err != nil {
		return ConnectRequest{}, err
	}
	sessionBytes, err := readN(r, 4)
	if err != nil {
		return ConnectRequest{}, err
	}
	gameBytes, err := readN(r, 4)
	if err != nil {
		return ConnectRequest{}, err
	}
	name, err := readString(r)
	if err != nil {
		return ConnectRequest{}, err
	}
	return ConnectRequest{
		ClientVersion:   version,
		DesiredName:     name,
		TargetSessionID: binary.LittleEndian.Uint32(sessionBytes),
		GameIdentifier:  binary.LittleEndian.Uint32(gameBytes),
	}, nil
}

// ConnectAccept is the payload of PacketConnectAccept.
type ConnectAccept struct {
	AssignedClientID uint8
	SessionID        uint32
}

func (p ConnectAccept) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(p.AssignedClientID)
	var le [4]byte
	binary.LittleEndian.PutUint32(le[:], p.SessionID)
	buf.Write(le[:])
	return buf.Bytes(), nil
}

func DecodeConnectAccept(data []byte) (ConnectAccept, error) {
	if len(data) < 5 {
		return ConnectAccept{}, ErrMalformedPayload
	}
	return ConnectAccept{
		AssignedClientID: data[0],
		SessionID:        binary.LittleEndian.Uint32(data[1:5]),
	}, nil
}

// ConnectDeny is the payload of PacketConnectDeny.
type ConnectDeny struct {
	Reason string
}

func (p ConnectDeny) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeString(&buf, p.Reason); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeConnectDeny(data []byte) (ConnectDeny, error) {
	r := bytes.NewReader(data)
	reason, err := readString(r)
	if err != nil {
		return ConnectDeny{}, err
	}
	return ConnectDeny{Reason: reason}, nil
}

// SessionConfig is the payload of PacketSessionConfig.
type SessionConfig struct {
	Version       uint8
	TickRate      uint16
	MaxPacketSize uint16
}

func (p SessionConfig) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(p.Version)
	var le [2]byte
	binary.LittleEndian.PutUint16(le[:], p.TickRate)
	buf.Write(le[:])
	binary.LittleEndian.PutUint16(le[:], p.MaxPacketSize)
	buf.Write(le[:])
	return buf.Bytes(), nil
}

func DecodeSessionConfig(data []byte) (SessionConfig, error) {
	if len(data) < 5 {
		return SessionConfig{}, ErrMalformedPayload
	}
	return SessionConfig{
		Version:       data[0],
		TickRate:      binary.LittleEndian.Uint16(data[1:3]),
		MaxPacketSize: binary.LittleEndian.Uint16(data[3:5]),
	}, nil
}

// PacketTypeEntry describes a single game-defined packet type inside a
// PacketTypeRegistry payload.
type PacketTypeEntry struct {
	PacketID    uint8
	Name        string
	Description string
}

// PacketTypeRegistry is the payload of PacketTypeRegistryPacket: a
// one-byte-counted list of PacketTypeEntry.
type PacketTypeRegistry struct {
	Entries []PacketTypeEntry
}

func (p PacketTypeRegistry) Encode() ([]byte, error) {
	if len(p.Entries) > MaxPayloadSize {
		return nil, ErrListTooLong
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(len(p.Entries)))
	for _, e := range p.Entries {
		buf.WriteByte(e.PacketID)
		if err := writeString(&buf, e.Name); err != nil {
			return nil, err
		}
		if err := writeString(&buf, e.Description); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func DecodePacketTypeRegistry(data []byte) (PacketTypeRegistry, error) {
	r := bytes.NewReader(data)
	count, err := readByte(r)
	if err != nil {
		return PacketTypeRegistry{}, err
	}
	entries := make([]PacketTypeEntry, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := readByte(r)
		if err != nil {
			return PacketTypeRegistry{}, err
		}
		name, err := readString(r)
		if err != nil {
			return PacketTypeRegistry{}, err
		}
		desc, err := readString(r)
		if err != nil {
			return PacketTypeRegistry{}, err
		}
		entries = append(entries, PacketTypeEntry{PacketID: id, Name: name, Description: desc})
	}
	return PacketTypeRegistry{Entries: entries}, nil
}

// Ping is the payload of PacketPing.
type Ping struct {
	Timestamp uint64
}

func (p Ping) Encode() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, p.Timestamp)
	return buf, nil
}

func DecodePing(data []byte) (Ping, error) {
	if len(data) < 8 {
		return Ping{}, ErrMalformedPayload
	}
	return Ping{Timestamp: binary.LittleEndian.Uint64(data[:8])}, nil
}

// Pong is the payload of PacketPong.
type Pong struct {
	OriginalTimestamp uint64
}

func (p Pong) Encode() ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, p.OriginalTimestamp)
	return buf, nil
}

func DecodePong(data []byte) (Pong, error) {
	if len(data) < 8 {
		return Pong{}, ErrMalformedPayload
	}
	return Pong{OriginalTimestamp: binary.LittleEndian.Uint64(data[:8])}, nil
}

// DisconnectNotice is the (empty) payload of PacketDisconnectNotice.
type DisconnectNotice struct{}

func (DisconnectNotice) Encode() ([]byte, error) {
	return []byte{}, nil
}

func DecodeDisconnectNotice(data []byte) (DisconnectNotice, error) {
	return DisconnectNotice{}, nil
}
