// Package wire implements the frame boundary with the decoding collaborator.
//
// The collaborator demultiplexes, decrypts, and frames game traffic into
// length-prefixed msgpack envelopes. This package reads those frames and
// decodes each payload exactly once into the closed variant types; nothing
// downstream re-interprets payload bytes.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/irminsul-dev/irminsul/types"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (4 MiB), including length prefix.
	// Inventory envelopes are small; anything larger is a framing fault.
	MaxFrameSize = 4 * 1024 * 1024
	// MaxPayloadSize is the maximum payload size (MaxFrameSize - 4 bytes).
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
)

// FrameErrorKind classifies frame decoding errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxFrameSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
	// FrameErrorMalformed indicates a structurally valid frame whose content
	// violates the message contract (unknown kind, bad category, bad meta).
	FrameErrorMalformed
)

// FrameError represents a frame decoding error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if this error must terminate the connection's
// ingestion loop. Partial and oversized frames mean the stream can no longer
// be resynchronized. Decode and malformed errors are droppable: the frame
// boundary is intact and the next frame may be fine.
func (e *FrameError) IsFatal() bool {
	return e.Kind == FrameErrorPartial || e.Kind == FrameErrorTooLarge
}

// IsFatalFrameError returns true if the error is a fatal frame error.
func IsFatalFrameError(err error) bool {
	var frameErr *FrameError
	if errors.As(err, &frameErr) {
		return frameErr.IsFatal()
	}
	return false
}

// Decoder decodes length-prefixed msgpack frames from a stream.
type Decoder struct {
	reader io.Reader
}

// NewDecoder creates a new frame decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: r}
}

// ReadFrame reads a single frame from the stream.
// Returns the raw payload bytes (msgpack-encoded).
//
// Errors:
//   - io.EOF: stream ended cleanly (no more frames)
//   - *FrameError with Kind=FrameErrorPartial: incomplete frame (fatal)
//   - *FrameError with Kind=FrameErrorTooLarge: frame exceeds limit (fatal)
func (d *Decoder) ReadFrame() ([]byte, error) {
	// 4-byte big-endian length prefix
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(d.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])

	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	_, err = io.ReadFull(d.reader, payload)
	if err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}

	return payload, nil
}

// DecodeEnvelope decodes a payload as a message envelope and validates its
// discriminators. The nested payload stays raw until DecodePayload.
func DecodeEnvelope(payload []byte) (*types.Envelope, error) {
	var env types.Envelope
	if err := msgpack.Unmarshal(payload, &env); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode envelope",
			Err:  err,
		}
	}

	switch env.Kind {
	case types.KindHandshake:
		// No category on handshakes.
	case types.KindUpsert, types.KindRemoval, types.KindPage:
		if !env.Category.Valid() {
			return nil, &FrameError{
				Kind: FrameErrorMalformed,
				Msg:  fmt.Sprintf("invalid category %q for kind %q", env.Category, env.Kind),
			}
		}
	default:
		return nil, &FrameError{
			Kind: FrameErrorMalformed,
			Msg:  fmt.Sprintf("unknown message kind %q", env.Kind),
		}
	}

	return &env, nil
}

// DecodePayload decodes the envelope's nested payload into its closed
// variant, determined by kind and category.
//
// Returns one of *types.ArtifactPayload, *types.WeaponPayload,
// *types.MaterialPayload, *types.CharacterPayload, *types.PageMeta,
// *types.Handshake, or nil for removals (which carry no payload).
func DecodePayload(env *types.Envelope) (any, error) {
	switch env.Kind {
	case types.KindRemoval:
		return nil, nil
	case types.KindHandshake:
		var hs types.Handshake
		if err := unmarshalPayload(env, &hs); err != nil {
			return nil, err
		}
		return &hs, nil
	case types.KindPage:
		var meta types.PageMeta
		if err := unmarshalPayload(env, &meta); err != nil {
			return nil, err
		}
		if meta.Cursor < 0 {
			return nil, &FrameError{
				Kind: FrameErrorMalformed,
				Msg:  fmt.Sprintf("negative page cursor %d", meta.Cursor),
			}
		}
		return &meta, nil
	case types.KindUpsert:
		return decodeEntityPayload(env)
	}
	return nil, &FrameError{
		Kind: FrameErrorMalformed,
		Msg:  fmt.Sprintf("unknown message kind %q", env.Kind),
	}
}

// DecodeEntityPayload decodes an upsert payload into its category variant.
func DecodeEntityPayload(env *types.Envelope) (types.EntityPayload, error) {
	return decodeEntityPayload(env)
}

func decodeEntityPayload(env *types.Envelope) (types.EntityPayload, error) {
	switch env.Category {
	case types.CategoryArtifact:
		var p types.ArtifactPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case types.CategoryWeapon:
		var p types.WeaponPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case types.CategoryMaterial:
		var p types.MaterialPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case types.CategoryCharacter:
		var p types.CharacterPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	return nil, &FrameError{
		Kind: FrameErrorMalformed,
		Msg:  fmt.Sprintf("invalid category %q", env.Category),
	}
}

func unmarshalPayload(env *types.Envelope, out any) error {
	if len(env.Payload) == 0 {
		return &FrameError{
			Kind: FrameErrorMalformed,
			Msg:  fmt.Sprintf("%s message missing payload", env.Kind),
		}
	}
	if err := msgpack.Unmarshal(env.Payload, out); err != nil {
		return &FrameError{
			Kind: FrameErrorDecode,
			Msg:  fmt.Sprintf("failed to decode %s payload", env.Kind),
			Err:  err,
		}
	}
	return nil
}
