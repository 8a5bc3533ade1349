// Package pipeline drives ingestion: frames come off capture sources, get
// decoded at the wire boundary, and dispatch into the session. Malformed
// messages are dropped and counted; only framing violations and
// cancellation stop an engine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/irminsul-dev/irminsul/capture"
	"github.com/irminsul-dev/irminsul/log"
	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/session"
	"github.com/irminsul-dev/irminsul/types"
	"github.com/irminsul-dev/irminsul/wire"
)

// IngestErrorKind classifies fatal ingestion errors.
type IngestErrorKind int

const (
	// IngestErrorStream indicates a frame/stream violation on the source.
	IngestErrorStream IngestErrorKind = iota
	// IngestErrorCanceled indicates context cancellation.
	IngestErrorCanceled
)

// IngestError classifies a fatal ingestion error for outcome determination.
type IngestError struct {
	Kind IngestErrorKind
	Err  error
}

func (e *IngestError) Error() string { return e.Err.Error() }

func (e *IngestError) Unwrap() error { return e.Err }

// IsStreamError returns true if the error is a frame/stream violation.
func IsStreamError(err error) bool {
	var ingErr *IngestError
	return errors.As(err, &ingErr) && ingErr.Kind == IngestErrorStream
}

// IsCanceledError returns true if the error is due to context cancellation.
func IsCanceledError(err error) bool {
	var ingErr *IngestError
	return errors.As(err, &ingErr) && ingErr.Kind == IngestErrorCanceled
}

// Engine ingests one source into the shared session.
//
// Per-message decode failures never terminate the stream: the capture runs
// for hours and one corrupt message must not cost the whole session. Frame
// boundary violations do terminate, because nothing after a bad length
// prefix can be trusted.
type Engine struct {
	source    capture.Source
	session   *session.Session
	logger    *log.Logger
	collector *metrics.Collector
	frameLog  *capture.FrameLogger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFrameLog records every raw frame for later replay.
func WithFrameLog(fl *capture.FrameLogger) EngineOption {
	return func(e *Engine) { e.frameLog = fl }
}

// NewEngine creates an ingestion engine over one source.
func NewEngine(src capture.Source, sess *session.Session, logger *log.Logger, collector *metrics.Collector, opts ...EngineOption) *Engine {
	e := &Engine{
		source:    src,
		session:   sess,
		logger:    logger,
		collector: collector,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run runs the ingestion loop until EOF or fatal error.
// Returns:
//   - nil: stream ended cleanly (EOF)
//   - *IngestError with Kind=IngestErrorStream: frame/stream violation
//   - *IngestError with Kind=IngestErrorCanceled: context canceled
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return &IngestError{Kind: IngestErrorCanceled, Err: ctx.Err()}
		default:
		}

		payload, err := e.source.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &IngestError{Kind: IngestErrorCanceled, Err: err}
			}
			e.logger.Error("frame error", map[string]any{
				"conn_id": e.source.ConnID(),
				"error":   err.Error(),
			})
			return &IngestError{
				Kind: IngestErrorStream,
				Err:  fmt.Errorf("frame error: %w", err),
			}
		}

		if e.frameLog != nil {
			if err := e.frameLog.LogFrame(payload); err != nil {
				e.logger.Warn("frame log write failed", map[string]any{
					"error": err.Error(),
				})
			}
		}

		e.processFrame(payload)
	}
}

// processFrame decodes and dispatches a single frame. Failures drop the
// message and keep the stream going.
func (e *Engine) processFrame(payload []byte) {
	env, err := wire.DecodeEnvelope(payload)
	if err != nil {
		e.logger.Warn("envelope decode failed, message dropped", map[string]any{
			"conn_id": e.source.ConnID(),
			"error":   err.Error(),
		})
		e.collector.IncMessageReceived()
		e.collector.IncMessageDropped(metrics.DropReasonDecode)
		return
	}

	decoded, err := wire.DecodePayload(env)
	if err != nil {
		e.logger.Warn("payload decode failed, message dropped", map[string]any{
			"conn_id":   e.source.ConnID(),
			"kind":      env.Kind,
			"category":  env.Category,
			"entity_id": env.EntityID,
			"error":     err.Error(),
		})
		e.collector.IncMessageReceived()
		e.collector.IncMessageDropped(metrics.DropReasonMalformed)
		return
	}

	if err := e.session.HandleEnvelope(env, decoded); err != nil {
		e.logger.Warn("message rejected, dropped", map[string]any{
			"conn_id":   e.source.ConnID(),
			"kind":      env.Kind,
			"category":  env.Category,
			"entity_id": env.EntityID,
			"error":     err.Error(),
		})
		e.collector.IncMessageDropped(metrics.DropReasonMalformed)
		return
	}

	if env.Kind == types.KindHandshake {
		e.logger.Info("handshake observed, session reset", map[string]any{
			"conn_id": e.source.ConnID(),
		})
	}
}
