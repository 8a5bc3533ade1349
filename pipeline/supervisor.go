package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/irminsul-dev/irminsul/capture"
	"github.com/irminsul-dev/irminsul/log"
	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/session"
)

// SourceResult is the terminal state of one attached source.
type SourceResult struct {
	// ConnID identifies the source's connection.
	ConnID uint32
	// Err is nil for a clean EOF, otherwise the fatal ingestion error.
	Err error
}

// Supervisor runs one ingestion engine per capture source against a shared
// session. Sources may attach and finish at different times; duplicates
// and reordering across sources are the session's problem, not the
// supervisor's.
type Supervisor struct {
	session   *session.Session
	logger    *log.Logger
	collector *metrics.Collector
	opts      []EngineOption

	wg      sync.WaitGroup
	mu      sync.Mutex
	results []SourceResult
}

// NewSupervisor creates a supervisor over a shared session. Engine options
// apply to every attached source.
func NewSupervisor(sess *session.Session, logger *log.Logger, collector *metrics.Collector, opts ...EngineOption) *Supervisor {
	return &Supervisor{
		session:   sess,
		logger:    logger,
		collector: collector,
		opts:      opts,
	}
}

// Attach starts ingesting a source on its own goroutine. The source is
// closed when its engine finishes.
func (s *Supervisor) Attach(ctx context.Context, src capture.Source) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer src.Close()

		engine := NewEngine(src, s.session, s.logger, s.collector, s.opts...)
		err := engine.Run(ctx)

		if err != nil && !IsCanceledError(err) {
			s.logger.Error("source terminated", map[string]any{
				"conn_id": src.ConnID(),
				"error":   err.Error(),
			})
		} else {
			s.logger.Debug("source finished", map[string]any{
				"conn_id": src.ConnID(),
			})
		}

		s.mu.Lock()
		s.results = append(s.results, SourceResult{ConnID: src.ConnID(), Err: err})
		s.mu.Unlock()
	}()
}

// Wait blocks until every attached source has finished and returns the
// joined fatal errors, nil when all streams ended cleanly. Cancellation
// errors are not failures.
func (s *Supervisor) Wait() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, r := range s.results {
		if r.Err != nil && !IsCanceledError(r.Err) {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Results returns the terminal state of every finished source.
func (s *Supervisor) Results() []SourceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SourceResult, len(s.results))
	copy(out, s.results)
	return out
}
