package session

import (
	"sync"
	"testing"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/types"
)

func upsertEnvelope(cat types.Category, id, rev uint64) *types.Envelope {
	return &types.Envelope{Kind: types.KindUpsert, Category: cat, EntityID: id, Revision: rev}
}

func TestSession_DispatchRoutes(t *testing.T) {
	s := New(Config{})

	err := s.HandleEnvelope(upsertEnvelope(types.CategoryArtifact, 42, 1), artifactPayload(1))
	if err != nil {
		t.Fatalf("upsert dispatch failed: %v", err)
	}
	if got := s.Count(types.CategoryArtifact); got != 1 {
		t.Errorf("Count = %d after upsert, want 1", got)
	}

	err = s.HandleEnvelope(&types.Envelope{Kind: types.KindPage, Category: types.CategoryArtifact},
		&types.PageMeta{Cursor: 0, IsLast: true})
	if err != nil {
		t.Fatalf("page dispatch failed: %v", err)
	}
	if got := s.Status(types.CategoryArtifact); got != types.EnumComplete {
		t.Errorf("Status = %q, want complete", got)
	}

	err = s.HandleEnvelope(&types.Envelope{Kind: types.KindRemoval, Category: types.CategoryArtifact, EntityID: 42, Revision: 5}, nil)
	if err != nil {
		t.Fatalf("removal dispatch failed: %v", err)
	}
	if got := s.Count(types.CategoryArtifact); got != 0 {
		t.Errorf("Count = %d after removal, want 0", got)
	}
}

func TestSession_MismatchedPayloadDropped(t *testing.T) {
	s := New(Config{})

	err := s.HandleEnvelope(upsertEnvelope(types.CategoryArtifact, 42, 1), "not a payload")
	if err == nil {
		t.Fatal("expected error for mismatched payload type")
	}
	if got := s.Count(types.CategoryArtifact); got != 0 {
		t.Errorf("Count = %d after dropped message, want 0", got)
	}
}

func TestSession_HandshakeResets(t *testing.T) {
	collector := metrics.NewCollector("test", "sess")
	s := New(Config{Collector: collector})

	if err := s.HandleEnvelope(upsertEnvelope(types.CategoryWeapon, 7, 1), &types.WeaponPayload{ItemID: 11401}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.HandleEnvelope(&types.Envelope{Kind: types.KindPage, Category: types.CategoryWeapon},
		&types.PageMeta{Cursor: 0, IsLast: true}); err != nil {
		t.Fatalf("page failed: %v", err)
	}

	before := s.Meta()
	err := s.HandleEnvelope(&types.Envelope{Kind: types.KindHandshake}, &types.Handshake{UID: 700001234})
	if err != nil {
		t.Fatalf("handshake dispatch failed: %v", err)
	}

	after := s.Meta()
	if after.SessionID == before.SessionID {
		t.Error("session id unchanged across handshake reset")
	}
	if after.UID != 700001234 {
		t.Errorf("UID = %d, want 700001234", after.UID)
	}
	if got := s.Count(types.CategoryWeapon); got != 0 {
		t.Errorf("store not cleared on reset: Count = %d", got)
	}
	if got := s.Status(types.CategoryWeapon); got != types.EnumNotStarted {
		t.Errorf("tracker not reset: Status = %q", got)
	}
	if collector.Snapshot().SessionResets != 1 {
		t.Errorf("SessionResets = %d, want 1", collector.Snapshot().SessionResets)
	}
}

func TestSession_SnapshotCarriesMetaAndStatuses(t *testing.T) {
	s := New(Config{})

	if err := s.HandleEnvelope(&types.Envelope{Kind: types.KindPage, Category: types.CategoryArtifact},
		&types.PageMeta{Cursor: 0, IsLast: true}); err != nil {
		t.Fatalf("page failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Meta.SessionID != s.Meta().SessionID {
		t.Error("snapshot meta does not match session meta")
	}
	if snap.Statuses[types.CategoryArtifact] != types.EnumComplete {
		t.Errorf("snapshot status = %q, want complete", snap.Statuses[types.CategoryArtifact])
	}
	if snap.Statuses[types.CategoryWeapon] != types.EnumNotStarted {
		t.Errorf("snapshot status = %q, want not_started", snap.Statuses[types.CategoryWeapon])
	}
}

func TestSession_SnapshotNeverMixesResetStates(t *testing.T) {
	s := New(Config{})

	// Seed a recognizable pre-reset state.
	for id := uint64(1); id <= 50; id++ {
		if err := s.HandleEnvelope(upsertEnvelope(types.CategoryArtifact, id, 1), artifactPayload(1)); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	snaps := make(chan *types.Snapshot, 200)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			snaps <- s.Snapshot()
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s.Reset(1)
			for id := uint64(1); id <= 50; id++ {
				_ = s.HandleEnvelope(upsertEnvelope(types.CategoryArtifact, id, 1), artifactPayload(1))
			}
		}
	}()

	wg.Wait()
	close(snaps)

	// Every snapshot reflects either a full pre-reset or post-reset state:
	// the artifact set is always a prefix run 1..n, never holes.
	for snap := range snaps {
		recs := snap.Records[types.CategoryArtifact]
		for i, rec := range recs {
			if rec.EntityID != uint64(i+1) {
				t.Fatalf("snapshot mixes reset states: index %d holds id %d", i, rec.EntityID)
			}
		}
	}
}

func TestSession_CompleteRequiresConfiguredCategories(t *testing.T) {
	s := New(Config{Required: []types.Category{types.CategoryArtifact}})

	if s.Complete() {
		t.Fatal("Complete() = true with nothing captured")
	}
	if err := s.HandleEnvelope(&types.Envelope{Kind: types.KindPage, Category: types.CategoryArtifact},
		&types.PageMeta{Cursor: 0, IsLast: true}); err != nil {
		t.Fatalf("page failed: %v", err)
	}
	if !s.Complete() {
		t.Fatal("Complete() = false with required category complete")
	}
}
