package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/types"
)

// DefaultRequired is the set of categories the completion indicator checks
// when the config names none.
var DefaultRequired = []types.Category{
	types.CategoryCharacter,
	types.CategoryArtifact,
	types.CategoryWeapon,
	types.CategoryMaterial,
}

// Config configures a capture session.
type Config struct {
	// Required lists the categories that must be Complete for the session's
	// Complete indicator. Defaults to all categories.
	Required []types.Category
	// Collector receives session counters. May be nil.
	Collector *metrics.Collector
}

// Session owns exactly one enumeration tracker and one entity merge store for
// the lifetime of a capture. It is created when capture starts, reset when a
// new game handshake is detected, and discarded when capture stops.
//
// Observe/apply dispatch is safe from multiple connection goroutines.
// Snapshot and Reset are mutually exclusive: an export either fully reflects
// the pre-reset or fully reflects the post-reset state, never a mix.
type Session struct {
	mu        sync.RWMutex // guards meta; excludes Reset against dispatch/Snapshot
	meta      types.SessionMeta
	tracker   *Tracker
	store     *Store
	required  []types.Category
	collector *metrics.Collector
}

// New creates a capture session with a fresh identity.
func New(cfg Config) *Session {
	required := cfg.Required
	if len(required) == 0 {
		required = DefaultRequired
	}
	return &Session{
		meta:      newMeta(0),
		tracker:   NewTracker(cfg.Collector),
		store:     NewStore(cfg.Collector),
		required:  required,
		collector: cfg.Collector,
	}
}

func newMeta(uid uint32) types.SessionMeta {
	return types.SessionMeta{
		SessionID: uuid.NewString(),
		UID:       uid,
		StartedAt: time.Now().UTC(),
	}
}

// Meta returns the current session identity.
func (s *Session) Meta() types.SessionMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// HandleEnvelope dispatches one decoded message to the tracker or the store.
// payload is the variant decoded at the wire boundary (wire.DecodePayload).
// Returned errors mark messages the caller should log and drop; they never
// abort the session.
func (s *Session) HandleEnvelope(env *types.Envelope, payload any) error {
	s.collector.IncMessageReceived()

	// Handshakes take the write lock via Reset; everything else dispatches
	// under the read lock so Reset stays atomic against in-flight applies.
	if env.Kind == types.KindHandshake {
		hs, ok := payload.(*types.Handshake)
		if !ok {
			return fmt.Errorf("handshake message with %T payload", payload)
		}
		s.Reset(hs.UID)
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch env.Kind {
	case types.KindPage:
		meta, ok := payload.(*types.PageMeta)
		if !ok {
			return fmt.Errorf("enum_page message with %T payload", payload)
		}
		return s.tracker.Observe(env.Category, *meta)

	case types.KindUpsert:
		p, ok := payload.(types.EntityPayload)
		if !ok {
			return fmt.Errorf("%w: entity_upsert with %T payload", ErrMissingPayload, payload)
		}
		return s.store.Apply(env.Category, env.EntityID, p, env.Revision)

	case types.KindRemoval:
		return s.store.Remove(env.Category, env.EntityID, env.Revision)
	}

	return fmt.Errorf("unknown message kind %q", env.Kind)
}

// Reset atomically starts a new session: all enumeration streams revert to
// NotStarted and the store is cleared before any subsequent apply is
// accepted. Dispatch and Snapshot calls in flight complete first.
func (s *Session) Reset(uid uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	s.store.Reset()
	s.meta = newMeta(uid)
	s.collector.IncSessionReset()
}

// Snapshot takes a consistent, immutable copy of the inventory. Safe to call
// concurrently with ongoing dispatch; mutually exclusive with Reset.
func (s *Session) Snapshot() *types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Snapshot(s.meta, s.tracker.Statuses())
}

// Status returns the enumeration status for one category.
func (s *Session) Status(category types.Category) types.EnumStatus {
	return s.tracker.Status(category)
}

// Progress returns per-category progress counters for interface display.
func (s *Session) Progress(category types.Category) (received, expected int64, known bool) {
	return s.tracker.Progress(category)
}

// Complete returns true once every required category is fully captured.
func (s *Session) Complete() bool {
	return s.tracker.Complete(s.required)
}

// Count returns the number of live records in a category.
func (s *Session) Count(category types.Category) int {
	return s.store.Len(category)
}
