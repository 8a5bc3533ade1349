package metrics

import (
	"sync"
	"testing"
)

func TestCollector_CountersAccumulate(t *testing.T) {
	c := NewCollector("live", "sess-001")

	c.IncMessageReceived()
	c.IncMessageReceived()
	c.IncMessageDropped(DropReasonDecode)
	c.IncMessageDropped(DropReasonMalformed)
	c.IncMessageDropped(DropReasonMalformed)
	c.IncUpsert()
	c.IncRevisionConflict()
	c.IncRemoval()
	c.IncStaleRemoval()
	c.IncPageObserved()
	c.IncDuplicatePage()
	c.IncSessionReset()
	c.IncSnapshotTaken()
	c.IncExportWritten()
	c.AddUnresolvedIdentities(3)

	snap := c.Snapshot()
	if snap.MessagesReceived != 2 {
		t.Errorf("MessagesReceived = %d, want 2", snap.MessagesReceived)
	}
	if snap.MessagesDropped != 3 {
		t.Errorf("MessagesDropped = %d, want 3", snap.MessagesDropped)
	}
	if snap.DroppedByReason[DropReasonMalformed] != 2 {
		t.Errorf("DroppedByReason[malformed] = %d, want 2", snap.DroppedByReason[DropReasonMalformed])
	}
	if snap.RevisionConflicts != 1 || snap.StaleRemovals != 1 {
		t.Errorf("conflict counters = %d/%d, want 1/1", snap.RevisionConflicts, snap.StaleRemovals)
	}
	if snap.UnresolvedIdentities != 3 {
		t.Errorf("UnresolvedIdentities = %d, want 3", snap.UnresolvedIdentities)
	}
	if snap.Source != "live" || snap.SessionID != "sess-001" {
		t.Errorf("dimensions = %q/%q, want live/sess-001", snap.Source, snap.SessionID)
	}
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	c := NewCollector("live", "sess-001")
	c.IncMessageDropped(DropReasonDecode)

	snap := c.Snapshot()
	snap.DroppedByReason[DropReasonDecode] = 100

	if got := c.Snapshot().DroppedByReason[DropReasonDecode]; got != 1 {
		t.Errorf("collector state mutated through snapshot: %d, want 1", got)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.IncMessageReceived()
	c.IncMessageDropped(DropReasonDecode)
	c.IncUpsert()
	c.IncSnapshotTaken()

	snap := c.Snapshot()
	if snap.MessagesReceived != 0 {
		t.Errorf("nil collector snapshot not zero: %+v", snap)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("live", "sess-001")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncMessageReceived()
				c.IncUpsert()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.MessagesReceived != 800 || snap.Upserts != 800 {
		t.Errorf("counters = %d/%d, want 800/800", snap.MessagesReceived, snap.Upserts)
	}
}
