// Package metrics provides per-session metrics collection.
//
// The Collector accumulates counters for one capture session. It is a leaf
// package with no internal dependencies. Counters survive session resets so
// the host application can report totals for the whole capture.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Ingestion
	MessagesReceived int64
	MessagesDropped  int64
	DroppedByReason  map[string]int64

	// Merge store
	Upserts           int64
	RevisionConflicts int64
	Removals          int64
	StaleRemovals     int64

	// Enumeration
	PagesObserved  int64
	DuplicatePages int64

	// Lifecycle
	SessionResets  int64
	SnapshotsTaken int64
	ExportsWritten int64

	// Export
	UnresolvedIdentities int64

	// Dimensions (informational, set at construction)
	Source    string
	SessionID string
}

// Drop reason labels for DroppedByReason.
const (
	DropReasonDecode    = "decode"
	DropReasonMalformed = "malformed"
	DropReasonUnknown   = "unknown_kind"
)

// Collector accumulates counters during a capture session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	messagesReceived int64
	messagesDropped  int64
	droppedByReason  map[string]int64

	upserts           int64
	revisionConflicts int64
	removals          int64
	staleRemovals     int64

	pagesObserved  int64
	duplicatePages int64

	sessionResets  int64
	snapshotsTaken int64
	exportsWritten int64

	unresolvedIdentities int64

	source    string
	sessionID string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(source, sessionID string) *Collector {
	return &Collector{
		droppedByReason: make(map[string]int64),
		source:          source,
		sessionID:       sessionID,
	}
}

// IncMessageReceived records a decoded protocol message entering the core.
func (c *Collector) IncMessageReceived() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.messagesReceived++
	c.mu.Unlock()
}

// IncMessageDropped records a malformed message dropped at the boundary.
func (c *Collector) IncMessageDropped(reason string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.messagesDropped++
	c.droppedByReason[reason]++
	c.mu.Unlock()
}

// IncUpsert records an insert or replace applied by the merge store.
func (c *Collector) IncUpsert() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.upserts++
	c.mu.Unlock()
}

// IncRevisionConflict records a stale update silently discarded.
func (c *Collector) IncRevisionConflict() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.revisionConflicts++
	c.mu.Unlock()
}

// IncRemoval records an entity removal applied by the merge store.
func (c *Collector) IncRemoval() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.removals++
	c.mu.Unlock()
}

// IncStaleRemoval records a removal ignored for carrying a lower revision.
func (c *Collector) IncStaleRemoval() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.staleRemovals++
	c.mu.Unlock()
}

// IncPageObserved records a new enumeration page cursor.
func (c *Collector) IncPageObserved() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.pagesObserved++
	c.mu.Unlock()
}

// IncDuplicatePage records an already-observed page cursor.
func (c *Collector) IncDuplicatePage() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.duplicatePages++
	c.mu.Unlock()
}

// IncSessionReset records an atomic session reset.
func (c *Collector) IncSessionReset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sessionResets++
	c.mu.Unlock()
}

// IncSnapshotTaken records a consistent snapshot copy.
func (c *Collector) IncSnapshotTaken() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.snapshotsTaken++
	c.mu.Unlock()
}

// IncExportWritten records a completed export.
func (c *Collector) IncExportWritten() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.exportsWritten++
	c.mu.Unlock()
}

// AddUnresolvedIdentities records entities exported with fallback identities.
func (c *Collector) AddUnresolvedIdentities(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.unresolvedIdentities += n
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{DroppedByReason: map[string]int64{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := make(map[string]int64, len(c.droppedByReason))
	for k, v := range c.droppedByReason {
		dropped[k] = v
	}

	return Snapshot{
		MessagesReceived:     c.messagesReceived,
		MessagesDropped:      c.messagesDropped,
		DroppedByReason:      dropped,
		Upserts:              c.upserts,
		RevisionConflicts:    c.revisionConflicts,
		Removals:             c.removals,
		StaleRemovals:        c.staleRemovals,
		PagesObserved:        c.pagesObserved,
		DuplicatePages:       c.duplicatePages,
		SessionResets:        c.sessionResets,
		SnapshotsTaken:       c.snapshotsTaken,
		ExportsWritten:       c.exportsWritten,
		UnresolvedIdentities: c.unresolvedIdentities,
		Source:               c.source,
		SessionID:            c.sessionID,
	}
}
