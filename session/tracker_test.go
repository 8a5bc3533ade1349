package session

import (
	"errors"
	"testing"

	"github.com/irminsul-dev/irminsul/types"
)

func page(cursor int64, isLast bool) types.PageMeta {
	return types.PageMeta{Cursor: cursor, IsLast: isLast}
}

func TestTracker_NotStartedByDefault(t *testing.T) {
	tr := NewTracker(nil)

	for _, cat := range types.Categories() {
		if got := tr.Status(cat); got != types.EnumNotStarted {
			t.Errorf("Status(%q) = %q, want not_started", cat, got)
		}
	}
}

func TestTracker_ContiguousRunCompletes(t *testing.T) {
	tr := NewTracker(nil)

	for _, meta := range []types.PageMeta{page(0, false), page(1, false), page(2, true)} {
		if err := tr.Observe(types.CategoryArtifact, meta); err != nil {
			t.Fatalf("Observe failed: %v", err)
		}
	}

	if got := tr.Status(types.CategoryArtifact); got != types.EnumComplete {
		t.Errorf("Status = %q, want complete", got)
	}
}

func TestTracker_GapKeepsInProgress(t *testing.T) {
	tr := NewTracker(nil)

	// Pages {0, 2} with final declared at 2: gap at cursor 1.
	if err := tr.Observe(types.CategoryArtifact, page(0, false)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if err := tr.Observe(types.CategoryArtifact, page(2, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	if got := tr.Status(types.CategoryArtifact); got != types.EnumInProgress {
		t.Errorf("Status = %q, want in_progress (gap at cursor 1)", got)
	}

	// Filling the gap completes the stream.
	if err := tr.Observe(types.CategoryArtifact, page(1, false)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if got := tr.Status(types.CategoryArtifact); got != types.EnumComplete {
		t.Errorf("Status after gap fill = %q, want complete", got)
	}
}

func TestTracker_DuplicatePagesIdempotent(t *testing.T) {
	tr := NewTracker(nil)

	for i := 0; i < 3; i++ {
		if err := tr.Observe(types.CategoryWeapon, page(0, true)); err != nil {
			t.Fatalf("Observe failed: %v", err)
		}
	}

	received, expected, known := tr.Progress(types.CategoryWeapon)
	if received != 1 {
		t.Errorf("received = %d after duplicate observations, want 1", received)
	}
	if !known || expected != 1 {
		t.Errorf("expected = %d (known=%v), want 1 (known)", expected, known)
	}
}

func TestTracker_UndercountedFinalRevokesComplete(t *testing.T) {
	tr := NewTracker(nil)

	if err := tr.Observe(types.CategoryMaterial, page(0, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if got := tr.Status(types.CategoryMaterial); got != types.EnumComplete {
		t.Fatalf("Status = %q, want complete before revision", got)
	}

	// Cursor beyond the declared final revises the final upward.
	if err := tr.Observe(types.CategoryMaterial, page(2, false)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if got := tr.Status(types.CategoryMaterial); got != types.EnumInProgress {
		t.Errorf("Status = %q, want in_progress after upward revision", got)
	}

	received, expected, known := tr.Progress(types.CategoryMaterial)
	if !known || expected != 3 {
		t.Errorf("expected = %d (known=%v), want 3", expected, known)
	}
	if received != 2 {
		t.Errorf("received = %d, want 2", received)
	}

	// Filling cursor 1 completes against the revised final.
	if err := tr.Observe(types.CategoryMaterial, page(1, false)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if got := tr.Status(types.CategoryMaterial); got != types.EnumComplete {
		t.Errorf("Status = %q, want complete after filling revised run", got)
	}
}

func TestTracker_TotalHintIsAdvisory(t *testing.T) {
	tr := NewTracker(nil)

	hint := int64(10)
	if err := tr.Observe(types.CategoryCharacter, types.PageMeta{Cursor: 0, TotalHint: &hint}); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	received, expected, known := tr.Progress(types.CategoryCharacter)
	if received != 1 || !known || expected != 10 {
		t.Errorf("progress = (%d, %d, %v), want (1, 10, true)", received, expected, known)
	}

	// A declared final cursor overrides the hint; completion never consults it.
	if err := tr.Observe(types.CategoryCharacter, page(1, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if got := tr.Status(types.CategoryCharacter); got != types.EnumComplete {
		t.Errorf("Status = %q, want complete despite hint of 10", got)
	}
	_, expected, _ = tr.Progress(types.CategoryCharacter)
	if expected != 2 {
		t.Errorf("expected = %d after final declaration, want 2", expected)
	}
}

func TestTracker_NegativeCursorRejected(t *testing.T) {
	tr := NewTracker(nil)

	err := tr.Observe(types.CategoryArtifact, page(-1, false))
	if !errors.Is(err, ErrNegativeCursor) {
		t.Fatalf("Observe error = %v, want ErrNegativeCursor", err)
	}
	// The stream stays untouched.
	if got := tr.Status(types.CategoryArtifact); got != types.EnumNotStarted {
		t.Errorf("Status = %q after rejected observation, want not_started", got)
	}
}

func TestTracker_UnknownCategoryRejected(t *testing.T) {
	tr := NewTracker(nil)

	err := tr.Observe(types.Category("achievement"), page(0, false))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Observe error = %v, want ErrUnknownCategory", err)
	}
}

func TestTracker_Complete(t *testing.T) {
	tr := NewTracker(nil)
	required := []types.Category{types.CategoryArtifact, types.CategoryWeapon}

	if tr.Complete(required) {
		t.Fatal("Complete() = true with no observations")
	}

	if err := tr.Observe(types.CategoryArtifact, page(0, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if tr.Complete(required) {
		t.Fatal("Complete() = true with weapon stream not started")
	}

	if err := tr.Observe(types.CategoryWeapon, page(0, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if !tr.Complete(required) {
		t.Fatal("Complete() = false with both required streams complete")
	}
	// Material and character are not required here.
	if tr.Complete(types.Categories()) {
		t.Fatal("Complete(all) = true with material/character not started")
	}
}

func TestTracker_ResetRevertsToNotStarted(t *testing.T) {
	tr := NewTracker(nil)

	if err := tr.Observe(types.CategoryArtifact, page(0, true)); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	tr.Reset()

	if got := tr.Status(types.CategoryArtifact); got != types.EnumNotStarted {
		t.Errorf("Status after Reset = %q, want not_started", got)
	}
	received, _, known := tr.Progress(types.CategoryArtifact)
	if received != 0 || known {
		t.Errorf("Progress after Reset = (%d, known=%v), want (0, false)", received, known)
	}
}
