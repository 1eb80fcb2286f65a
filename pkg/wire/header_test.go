package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Magic:         Magic,
		Version:       Version,
		PacketType:    PacketPing,
		Sequence:      4242,
		ClientID:      7,
		DestinationID: 1,
		PayloadLen:    8,
	}

	b := EncodeHeader(h)
	require.Len(t, b, HeaderSize)

	got, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 8))
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestMagicWireBytes(t *testing.T) {
	b := EncodeHeader(Header{Magic: Magic, Version: Version, PacketType: PacketPing})
	assert.Equal(t, byte(0x45), b[0])
	assert.Equal(t, byte(0x4E), b[1])
}
