package wire

// Encode writes h's header followed by payload. payload must be no longer
// than MaxPayloadSize bytes; h.PayloadLen is overwritten to match len(payload)
// so callers never have to keep the two in sync by hand.
func Encode(h Header, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}
	h.PayloadLen = uint8(len(payload))
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, EncodeHeader(h)...)
	out = append(out, payload...)
	return out, nil
}

// Decode reads a header and its payload out of data. It enforces the magic
// and version gate and the declared payload length; trailing bytes beyond
// HeaderSize+payload_len are ignored, as the spec requires.
func Decode(data []byte) (Header, []byte, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Magic != Magic {
		return Header{}, nil, ErrBadMagic
	}
	if h.Version != Version {
		return Header{}, nil, ErrUnsupportedVersion
	}
	end := HeaderSize + int(h.PayloadLen)
	if len(data) < end {
		return Header{}, nil, ErrTruncatedPayload
	}
	payload := make([]byte, h.PayloadLen)
	copy(payload, data[HeaderSize:end])
	return h, payload, nil
}
