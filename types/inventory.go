package types

import "time"

// EntityRecord is the latest known state of one entity within a category.
// Records are keyed by EntityID, never by stream position.
type EntityRecord struct {
	// Category is the inventory category.
	Category Category
	// EntityID is the stable internal identifier.
	EntityID uint64
	// Revision is the monotonically increasing revision the payload was
	// applied at. A later message for the same id wins by revision, not by
	// arrival order.
	Revision uint64
	// Payload is the decoded category payload.
	Payload EntityPayload
}

// SessionMeta identifies one capture session.
type SessionMeta struct {
	// SessionID is a unique id assigned at session start and reset.
	SessionID string
	// UID is the account identifier from the handshake, zero until seen.
	UID uint32
	// StartedAt is the session start instant.
	StartedAt time.Time
}

// Snapshot is an immutable, consistent copy of the inventory at one instant.
// It holds no reference back to live session state and is safe to hand to
// the export path while the session keeps mutating.
type Snapshot struct {
	// Meta is the owning session's identity at the time the snapshot was taken.
	Meta SessionMeta
	// TakenAt is the snapshot instant.
	TakenAt time.Time
	// Records maps category to its records, sorted by EntityID.
	Records map[Category][]EntityRecord
	// Statuses maps category to its enumeration status at the snapshot instant.
	Statuses map[Category]EnumStatus
}

// Count returns the total number of records across all categories.
func (s *Snapshot) Count() int {
	n := 0
	for _, recs := range s.Records {
		n += len(recs)
	}
	return n
}
