package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/types"
)

// entry is the stored state for one entity id, including tombstones.
// Payloads are treated as immutable after decode: Apply replaces the
// pointer, never mutates through it, so snapshots can share payloads with
// live entries.
type entry struct {
	revision uint64
	payload  types.EntityPayload
	removed  bool
}

// Store is the keyed, idempotent entity merge store. Updates to a single
// entity are linearized by revision, not arrival time, so applying a batch
// of correctly-revisioned messages is commutative and idempotent under any
// delivery order or duplication.
//
// Removals leave a tombstone carrying the removal revision so a
// retransmitted stale update cannot resurrect a removed entity. Tombstones
// are discarded on Reset.
type Store struct {
	mu        sync.RWMutex
	records   map[types.Category]map[uint64]*entry
	collector *metrics.Collector
}

// NewStore creates an empty merge store.
func NewStore(collector *metrics.Collector) *Store {
	s := &Store{collector: collector}
	s.reset()
	return s
}

func (s *Store) reset() {
	records := make(map[types.Category]map[uint64]*entry, len(types.Categories()))
	for _, cat := range types.Categories() {
		records[cat] = make(map[uint64]*entry)
	}
	s.records = records
}

// Apply inserts or updates the entity's record. The incoming payload wins
// only if its revision is strictly greater than the stored one; otherwise it
// is discarded silently (expected under retransmission, not an error).
//
// A zero revision means the source provides no ordering signal; the store
// assigns the next value of the entity's logical clock, making arrival order
// the tiebreak only in that degenerate case.
func (s *Store) Apply(category types.Category, entityID uint64, payload types.EntityPayload, revision uint64) error {
	if payload == nil {
		return ErrMissingPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	e, exists := byID[entityID]
	if !exists {
		if revision == 0 {
			revision = 1
		}
		byID[entityID] = &entry{revision: revision, payload: payload}
		s.collector.IncUpsert()
		return nil
	}

	if revision == 0 {
		revision = e.revision + 1
	}
	if revision <= e.revision {
		s.collector.IncRevisionConflict()
		return nil
	}

	e.revision = revision
	e.payload = payload
	e.removed = false
	s.collector.IncUpsert()
	return nil
}

// Remove deletes the entity's record, leaving a revision-carrying tombstone.
// A removal with a lower revision than the stored record is ignored. A zero
// revision removes unconditionally (arrival-order tiebreak).
func (s *Store) Remove(category types.Category, entityID uint64, revision uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	e, exists := byID[entityID]
	if !exists {
		// Tombstone ahead of any upsert so a late retransmission of the
		// removed entity does not insert it back.
		if revision == 0 {
			revision = 1
		}
		byID[entityID] = &entry{revision: revision, removed: true}
		s.collector.IncRemoval()
		return nil
	}

	if revision == 0 {
		revision = e.revision + 1
	}
	if revision < e.revision {
		s.collector.IncStaleRemoval()
		return nil
	}

	e.revision = revision
	e.payload = nil
	e.removed = true
	s.collector.IncRemoval()
	return nil
}

// Len returns the number of live (non-tombstone) records in a category.
func (s *Store) Len(category types.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.records[category] {
		if !e.removed {
			n++
		}
	}
	return n
}

// snapshotRecords copies all live records in one logical instant. The copy
// happens under the read lock, so no category is ever observed torn between
// pre- and post-update state; concurrent Apply calls block only for the
// duration of the memory copy.
func (s *Store) snapshotRecords() map[types.Category][]types.EntityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[types.Category][]types.EntityRecord, len(s.records))
	for cat, byID := range s.records {
		recs := make([]types.EntityRecord, 0, len(byID))
		for id, e := range byID {
			if e.removed {
				continue
			}
			recs = append(recs, types.EntityRecord{
				Category: cat,
				EntityID: id,
				Revision: e.revision,
				Payload:  e.payload,
			})
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].EntityID < recs[j].EntityID })
		out[cat] = recs
	}
	return out
}

// Snapshot takes a consistent copy of all current records, stamped with the
// given session identity. The returned snapshot holds no reference to live
// store state.
func (s *Store) Snapshot(meta types.SessionMeta, statuses map[types.Category]types.EnumStatus) *types.Snapshot {
	snap := &types.Snapshot{
		Meta:     meta,
		TakenAt:  time.Now().UTC(),
		Records:  s.snapshotRecords(),
		Statuses: statuses,
	}
	s.collector.IncSnapshotTaken()
	return snap
}

// Reset clears all records and tombstones.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
