// Package history keeps snapshot based undo and redo for a surface.
package history

import (
	"time"

	"github.com/example/marksurface/internal/surface"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 50

// Entry records one completed action. Before is the layer collection as it
// was before the action; After is filled in when the action is undone so it
// can be redone later.
type Entry struct {
	ID          string
	Description string
	Before      surface.Layers
	After       surface.Layers
	Timestamp   time.Time
}

// Manager is a bounded undo stack with a cursor. The zero value is not
// usable; call New.
type Manager struct {
	entries []Entry
	cursor  int
	limit   int
	now     func() time.Time
}

// New returns an empty manager holding at most limit entries. A
// non-positive limit selects DefaultLimit.
func New(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{cursor: -1, limit: limit, now: time.Now}
}

// Push records an action. Entries ahead of the cursor are discarded and the
// oldest entry is evicted when the limit is exceeded.
func (m *Manager) Push(description string, before, after surface.Layers) Entry {
	e := Entry{
		ID:          surface.NewID(),
		Description: description,
		Before:      before,
		After:       after,
		Timestamp:   m.now(),
	}
	m.entries = append(m.entries[:m.cursor+1], e)
	if len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append([]Entry(nil), m.entries[drop:]...)
	}
	m.cursor = len(m.entries) - 1
	return e
}

// Undo steps back one entry. current is the live layer collection, stored
// so that a later Redo restores exactly what was on screen.
func (m *Manager) Undo(current surface.Layers) (surface.Layers, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	e := &m.entries[m.cursor]
	e.After = current
	m.cursor--
	return e.Before, true
}

// Redo re-applies the entry ahead of the cursor.
func (m *Manager) Redo() (surface.Layers, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.cursor++
	return m.entries[m.cursor].After, true
}

func (m *Manager) CanUndo() bool { return m.cursor >= 0 }

func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

func (m *Manager) Len() int { return len(m.entries) }

func (m *Manager) Cursor() int { return m.cursor }

func (m *Manager) Limit() int { return m.limit }

// Entries returns a copy of the recorded entries, oldest first.
func (m *Manager) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Clear forgets all entries.
func (m *Manager) Clear() {
	m.entries = nil
	m.cursor = -1
}
