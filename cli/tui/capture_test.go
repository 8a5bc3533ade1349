package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/irminsul-dev/irminsul/metrics"
	"github.com/irminsul-dev/irminsul/session"
	"github.com/irminsul-dev/irminsul/types"
)

func testSession(t *testing.T) (*session.Session, *metrics.Collector) {
	t.Helper()
	collector := metrics.NewCollector("tui-test", "s-1")
	sess := session.New(session.Config{Collector: collector})

	err := sess.HandleEnvelope(
		&types.Envelope{Kind: types.KindUpsert, Category: types.CategoryMaterial, EntityID: 1, Revision: 1},
		&types.MaterialPayload{ItemID: 104001, Count: 3},
	)
	if err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	err = sess.HandleEnvelope(
		&types.Envelope{Kind: types.KindPage, Category: types.CategoryMaterial},
		&types.PageMeta{Cursor: 0, IsLast: true},
	)
	if err != nil {
		t.Fatalf("seeding page: %v", err)
	}
	return sess, collector
}

func TestViewShowsCategoryProgress(t *testing.T) {
	sess, collector := testSession(t)
	m := NewCaptureModel(sess, collector, nil)

	view := m.View()
	if !strings.Contains(view, "material") {
		t.Errorf("view missing category row:\n%s", view)
	}
	if !strings.Contains(view, "1/1 pages") {
		t.Errorf("view missing page progress:\n%s", view)
	}
	if !strings.Contains(view, "waiting for handshake") {
		t.Errorf("view missing UID placeholder:\n%s", view)
	}
	if !strings.Contains(view, "Press q to quit") {
		t.Errorf("view missing help without export fn:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	sess, collector := testSession(t)
	m := NewCaptureModel(sess, collector, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if view := updated.View(); view != "" {
		t.Errorf("quitting view should be empty, got %q", view)
	}
}

func TestExportKeyRunsCallback(t *testing.T) {
	sess, collector := testSession(t)

	called := false
	m := NewCaptureModel(sess, collector, func() (string, error) {
		called = true
		return "/tmp/good.json", nil
	})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg := cmd()
	if !called {
		t.Fatal("export callback not invoked")
	}

	final, _ := updated.Update(msg)
	view := final.View()
	if !strings.Contains(view, "export written: /tmp/good.json") {
		t.Errorf("view missing export result:\n%s", view)
	}
}

func TestExportFailureShown(t *testing.T) {
	sess, collector := testSession(t)
	m := NewCaptureModel(sess, collector, func() (string, error) {
		return "", errors.New("disk full")
	})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if cmd == nil {
		t.Fatal("expected export command")
	}
	final, _ := updated.Update(cmd())
	if !strings.Contains(final.View(), "export failed: disk full") {
		t.Errorf("view missing export error:\n%s", final.View())
	}
}

func TestExportKeyIgnoredWithoutCallback(t *testing.T) {
	sess, collector := testSession(t)
	m := NewCaptureModel(sess, collector, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if cmd != nil {
		t.Error("export key produced a command without a callback")
	}
}
