// Package session implements the live inventory reconstruction core: the
// enumeration tracker, the entity merge store, and the capture session that
// owns both.
package session

import (
	"fmt"
	"sync"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/types"
)

// noFinal marks a stream whose final cursor has not been declared yet.
const noFinal = int64(-1)

// enumStream tracks pagination state for one category.
type enumStream struct {
	status    types.EnumStatus
	observed  map[int64]struct{}
	final     int64 // declared final cursor, noFinal until an is_last page
	totalHint *int64
}

// Tracker determines when a category's paginated enumeration has been fully
// observed. Safe for concurrent use from multiple connection goroutines.
//
// A stream becomes Complete only once every cursor from 0 through the
// declared final cursor has been observed at least once. A page beyond the
// declared final cursor revises the final cursor upward and revokes
// Complete; nothing else regresses a Complete stream except Reset.
type Tracker struct {
	mu        sync.RWMutex
	streams   map[types.Category]*enumStream
	collector *metrics.Collector
}

// NewTracker creates a tracker with NotStarted streams for all categories.
func NewTracker(collector *metrics.Collector) *Tracker {
	t := &Tracker{collector: collector}
	t.reset()
	return t
}

func (t *Tracker) reset() {
	streams := make(map[types.Category]*enumStream, len(types.Categories()))
	for _, cat := range types.Categories() {
		streams[cat] = &enumStream{
			status:   types.EnumNotStarted,
			observed: make(map[int64]struct{}),
			final:    noFinal,
		}
	}
	t.streams = streams
}

// Observe updates the category's stream with one page observation.
// Duplicate cursors are idempotent. Returns an error only for metadata the
// tracker cannot interpret; the caller drops the message and continues.
func (t *Tracker) Observe(category types.Category, meta types.PageMeta) error {
	if meta.Cursor < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCursor, meta.Cursor)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stream, ok := t.streams[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if stream.status == types.EnumNotStarted {
		stream.status = types.EnumInProgress
	}
	if meta.TotalHint != nil && stream.totalHint == nil {
		hint := *meta.TotalHint
		stream.totalHint = &hint
	}

	if _, seen := stream.observed[meta.Cursor]; seen {
		t.collector.IncDuplicatePage()
	} else {
		stream.observed[meta.Cursor] = struct{}{}
		t.collector.IncPageObserved()
	}

	// The is_last page declares its own cursor as final. A page beyond the
	// declared final cursor means the client undercounted; revise upward.
	if meta.IsLast && meta.Cursor > stream.final {
		stream.final = meta.Cursor
	}
	if stream.final != noFinal && meta.Cursor > stream.final {
		stream.final = meta.Cursor
	}

	stream.status = t.computeStatus(stream)
	return nil
}

// computeStatus derives the stream status from observed cursors.
// Caller holds t.mu.
func (t *Tracker) computeStatus(stream *enumStream) types.EnumStatus {
	if stream.final == noFinal {
		return types.EnumInProgress
	}
	for cursor := int64(0); cursor <= stream.final; cursor++ {
		if _, ok := stream.observed[cursor]; !ok {
			return types.EnumInProgress
		}
	}
	return types.EnumComplete
}

// Status returns the enumeration status for a category.
func (t *Tracker) Status(category types.Category) types.EnumStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stream, ok := t.streams[category]
	if !ok {
		return types.EnumNotStarted
	}
	return stream.status
}

// Progress returns the number of distinct pages observed and the expected
// page count. known is false while neither a final cursor nor a total hint
// has been seen.
func (t *Tracker) Progress(category types.Category) (received, expected int64, known bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stream, ok := t.streams[category]
	if !ok {
		return 0, 0, false
	}

	received = int64(len(stream.observed))
	switch {
	case stream.final != noFinal:
		return received, stream.final + 1, true
	case stream.totalHint != nil:
		return received, *stream.totalHint, true
	default:
		return received, 0, false
	}
}

// Statuses returns a copy of all stream statuses.
func (t *Tracker) Statuses() map[types.Category]types.EnumStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	statuses := make(map[types.Category]types.EnumStatus, len(t.streams))
	for cat, stream := range t.streams {
		statuses[cat] = stream.status
	}
	return statuses
}

// Complete returns true if every required category is Complete.
func (t *Tracker) Complete(required []types.Category) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, cat := range required {
		stream, ok := t.streams[cat]
		if !ok || stream.status != types.EnumComplete {
			return false
		}
	}
	return true
}

// Reset reverts all streams to NotStarted.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}
