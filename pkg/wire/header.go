package wire

import "encoding/binary"

// EncodeHeader writes h's 9-byte on-wire representation.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Magic)
	buf[2] = h.Version
	buf[3] = uint8(h.PacketType)
	binary.LittleEndian.PutUint16(buf[4:6], h.Sequence)
	buf[6] = h.ClientID
	buf[7] = h.DestinationID
	buf[8] = h.PayloadLen
	return buf
}

// DecodeHeader reads the fixed 9-byte header from the front of data. It does
// not validate magic or version; callers that need the full drop policy
// should use Decode instead. It exists so the relay can peek at header
// fields without paying for payload validation it never performs.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTooShort
	}
	return Header{
		Magic:         binary.LittleEndian.Uint16(data[0:2]),
		Version:       data[2],
		PacketType:    PacketType(data[3]),
		Sequence:      binary.LittleEndian.Uint16(data[4:6]),
		ClientID:      data[6],
		DestinationID: data[7],
		PayloadLen:    data[8],
	}, nil
}
