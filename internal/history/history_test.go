package history

import (
	"fmt"
	"testing"

	"github.com/example/marksurface/internal/surface"
)

func snapshot(n int) surface.Layers {
	var ls surface.Layers
	for i := 0; i < n; i++ {
		ls = ls.WithLayer(ls.NewLayer(surface.LayerSpec{ID: fmt.Sprintf("l%d", i)}))
	}
	return ls
}

func TestEmptyManager(t *testing.T) {
	m := New(3)
	if m.CanUndo() || m.CanRedo() || m.Cursor() != -1 {
		t.Fatalf("unexpected state cursor=%d", m.Cursor())
	}
	if _, ok := m.Undo(nil); ok {
		t.Fatal("undo on empty history succeeded")
	}
	if _, ok := m.Redo(); ok {
		t.Fatal("redo on empty history succeeded")
	}
}

func TestEvictsOldest(t *testing.T) {
	m := New(3)
	for i := 0; i < 4; i++ {
		m.Push(fmt.Sprintf("step %d", i), snapshot(i), snapshot(i+1))
	}
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	if got := m.Entries()[0].Description; got != "step 1" {
		t.Fatalf("oldest = %q, want step 1", got)
	}
	if m.Cursor() != 2 || !m.CanUndo() || m.CanRedo() {
		t.Fatalf("cursor=%d undo=%v redo=%v", m.Cursor(), m.CanUndo(), m.CanRedo())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := New(10)
	s0, s1, s2 := snapshot(0), snapshot(1), snapshot(2)
	m.Push("one", s0, s1)
	m.Push("two", s1, s2)

	got, ok := m.Undo(s2)
	if !ok || len(got) != 1 {
		t.Fatalf("undo -> %d layers, ok=%v", len(got), ok)
	}
	if !m.CanRedo() || m.Cursor() != 0 {
		t.Fatalf("cursor=%d redo=%v", m.Cursor(), m.CanRedo())
	}
	got, _ = m.Undo(got)
	if len(got) != 0 || m.CanUndo() {
		t.Fatalf("second undo -> %d layers, canUndo=%v", len(got), m.CanUndo())
	}
	got, ok = m.Redo()
	if !ok || len(got) != 1 {
		t.Fatalf("redo -> %d layers", len(got))
	}
	got, _ = m.Redo()
	if len(got) != 2 || m.CanRedo() {
		t.Fatalf("second redo -> %d layers, canRedo=%v", len(got), m.CanRedo())
	}
}

func TestPushDropsRedoBranch(t *testing.T) {
	m := New(10)
	m.Push("one", snapshot(0), snapshot(1))
	m.Push("two", snapshot(1), snapshot(2))
	m.Undo(snapshot(2))
	m.Push("three", snapshot(1), snapshot(3))
	if m.Len() != 2 || m.CanRedo() {
		t.Fatalf("Len=%d canRedo=%v", m.Len(), m.CanRedo())
	}
	if got := m.Entries()[1].Description; got != "three" {
		t.Fatalf("last entry = %q", got)
	}
}

func TestClear(t *testing.T) {
	m := New(0)
	if m.Limit() != DefaultLimit {
		t.Fatalf("Limit = %d", m.Limit())
	}
	m.Push("x", nil, nil)
	m.Clear()
	if m.Len() != 0 || m.CanUndo() {
		t.Fatal("Clear left entries behind")
	}
}
