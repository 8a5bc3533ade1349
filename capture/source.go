// Package capture provides frame sources for the ingestion pipeline: live
// decoder streams, recorded replay files, and raw frame logging for later
// replay.
package capture

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/irminsul-dev/irminsul/wire"
)

// Source yields length-prefixed frame payloads from one connection.
// Ordering is only meaningful within a source; the session merges across
// sources by revision, not arrival.
type Source interface {
	// NextFrame returns the next frame payload. io.EOF signals a clean end
	// of stream; any other error terminates the source.
	NextFrame(ctx context.Context) ([]byte, error)
	// ConnID identifies the underlying connection.
	ConnID() uint32
	// Close releases the source.
	Close() error
}

// connIDs hands out process-unique connection ids for sources that have
// no inherent one.
var connIDs atomic.Uint32

// NextConnID returns a fresh connection id.
func NextConnID() uint32 {
	return connIDs.Add(1)
}

// ReaderSource adapts an io.Reader carrying length-prefixed frames, such
// as the decoding collaborator's stdout pipe.
type ReaderSource struct {
	decoder *wire.Decoder
	connID  uint32
	closer  io.Closer
}

// NewReaderSource wraps a reader in a frame source. If r implements
// io.Closer, Close closes it.
func NewReaderSource(r io.Reader) *ReaderSource {
	src := &ReaderSource{
		decoder: wire.NewDecoder(r),
		connID:  NextConnID(),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// NextFrame reads one frame. Cancellation is checked between frames; a
// blocked read returns when the underlying pipe closes.
func (s *ReaderSource) NextFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.decoder.ReadFrame()
}

// ConnID identifies this source's connection.
func (s *ReaderSource) ConnID() uint32 { return s.connID }

// Close closes the underlying reader when it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

var _ Source = (*ReaderSource)(nil)
