package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/irminsul-dev/irminsul/wire"
)

// ReplaySource replays a recorded frame log. The file format is the live
// wire format, so a capture recorded by FrameLogger reproduces the exact
// message stream, duplicates and reordering included.
type ReplaySource struct {
	file    *os.File
	decoder *wire.Decoder
	connID  uint32
}

// NewReplaySource opens a recorded frame log for replay.
func NewReplaySource(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	return &ReplaySource{
		file:    f,
		decoder: wire.NewDecoder(f),
		connID:  NextConnID(),
	}, nil
}

// NextFrame reads the next recorded frame.
func (s *ReplaySource) NextFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.decoder.ReadFrame()
}

// ConnID identifies this source's connection.
func (s *ReplaySource) ConnID() uint32 { return s.connID }

// Close closes the replay file.
func (s *ReplaySource) Close() error {
	return s.file.Close()
}

var _ Source = (*ReplaySource)(nil)
