package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"small", []byte("hello")},
		{"max", make([]byte, MaxPayloadSize)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := Header{
				Magic:         Magic,
				Version:       Version,
				PacketType:    PacketPing,
				Sequence:      1,
				ClientID:      2,
				DestinationID: 1,
			}
			encoded, err := Encode(h, c.payload)
			require.NoError(t, err)

			gotHeader, gotPayload, err := Decode(encoded)
			require.NoError(t, err)

			h.PayloadLen = uint8(len(c.payload))
			assert.Equal(t, h, gotHeader)
			assert.Equal(t, len(c.payload), len(gotPayload))
		})
	}
}

func TestEncodePayloadTooLarge(t *testing.T) {
	_, err := Encode(Header{}, make([]byte, MaxPayloadSize+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeBadMagic(t *testing.T) {
	h := Header{Magic: 0x1234, Version: Version, PacketType: PacketPing}
	encoded := EncodeHeader(h)
	_, _, err := Decode(encoded)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	h := Header{Magic: Magic, Version: Version + 1, PacketType: PacketPing}
	encoded := EncodeHeader(h)
	_, _, err := Decode(encoded)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	h := Header{Magic: Magic, Version: Version, PacketType: PacketPing, PayloadLen: 10}
	encoded := EncodeHeader(h)
	_, _, err := Decode(encoded)
	assert.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	h := Header{Magic: Magic, Version: Version, PacketType: PacketPing}
	encoded, err := Encode(h, []byte("ab"))
	require.NoError(t, err)
	encoded = append(encoded, 0xFF, 0xFF, 0xFF)

	_, payload, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), payload)
}

func TestDecodeTooShort(t *testing.T) {
	_, _, err := Decode([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTooShort)
}
