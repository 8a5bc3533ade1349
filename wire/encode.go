package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/irminsul-dev/irminsul/types"
)

// EncodeEnvelope encodes an envelope with its payload already set.
// Used by the replay source and by tests; the live decoding collaborator
// produces frames itself.
func EncodeEnvelope(env *types.Envelope) ([]byte, error) {
	payload, err := msgpack.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return payload, nil
}

// EncodePayload msgpack-encodes a payload value for embedding in an envelope.
func EncodePayload(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// AppendFrame appends a length-prefixed frame containing payload to dst.
func AppendFrame(dst, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize)
	}
	var lengthBuf [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))
	dst = append(dst, lengthBuf[:]...)
	return append(dst, payload...), nil
}
