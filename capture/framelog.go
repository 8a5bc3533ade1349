package capture

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/irminsul-dev/irminsul/wire"
)

// FrameLogger records raw frames to a file in the live wire format, for
// later replay through ReplaySource. Safe for concurrent use from several
// connection goroutines; frames interleave whole.
type FrameLogger struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// NewFrameLogger creates a frame log at path, truncating any existing file.
func NewFrameLogger(path string) (*FrameLogger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating frame log: %w", err)
	}
	return &FrameLogger{file: f, buf: bufio.NewWriter(f)}, nil
}

// LogFrame appends one frame payload with its length prefix.
func (l *FrameLogger) LogFrame(payload []byte) error {
	framed, err := wire.AppendFrame(nil, payload)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return fmt.Errorf("frame log is closed")
	}
	if _, err := l.buf.Write(framed); err != nil {
		return fmt.Errorf("writing frame log: %w", err)
	}
	return nil
}

// Close flushes and closes the log.
func (l *FrameLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	flushErr := l.buf.Flush()
	closeErr := l.file.Close()
	l.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
