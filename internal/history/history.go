// Package history implements snapshot based undo and redo for a tree document.
//
// Every committed state is stored as a compact JSON snapshot. The top of the
// undo stack always mirrors the live tree, so an undo stack holding a single
// snapshot has nothing left to undo.
package history

import (
	"fmt"

	"mindnoscape/canvas-app/internal/codec"
	"mindnoscape/canvas-app/internal/tree"
)

// Manager holds the undo and redo stacks of one document.
type Manager struct {
	undo  [][]byte // oldest first
	redo  [][]byte // most recently undone last
	limit int
}

// NewManager creates an empty history. A positive limit caps the number of
// snapshots kept on the undo stack; zero keeps everything.
func NewManager(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit}
}

// Commit records the current state of t and clears the redo stack.
func (m *Manager) Commit(t *tree.Tree) error {
	snap, err := codec.Snapshot(t)
	if err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	m.undo = append(m.undo, snap)
	m.redo = m.redo[:0]
	if m.limit > 0 && len(m.undo) > m.limit {
		m.undo = append([][]byte(nil), m.undo[len(m.undo)-m.limit:]...)
	}
	return nil
}

// Undo steps back one commit. It reports false and returns t unchanged when
// only the current state is recorded. A snapshot that fails to decode leaves
// both stacks as they were.
func (m *Manager) Undo(t *tree.Tree) (*tree.Tree, bool, error) {
	if len(m.undo) <= 1 {
		return t, false, nil
	}
	restored, err := m.Restore(t, m.undo[len(m.undo)-2])
	if err != nil {
		return t, false, fmt.Errorf("failed to undo: %w", err)
	}
	top := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, top)
	return restored, true, nil
}

// Redo re-applies the most recently undone commit.
func (m *Manager) Redo(t *tree.Tree) (*tree.Tree, bool, error) {
	if len(m.redo) == 0 {
		return t, false, nil
	}
	top := m.redo[len(m.redo)-1]
	restored, err := m.Restore(t, top)
	if err != nil {
		return t, false, fmt.Errorf("failed to redo: %w", err)
	}
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, top)
	return restored, true, nil
}

// Restore decodes snap into a fresh tree. Node identities of t are not
// carried over; only its options are.
func (m *Manager) Restore(t *tree.Tree, snap []byte) (*tree.Tree, error) {
	opts := tree.DefaultOptions()
	if t != nil {
		opts = t.Options()
	}
	restored, err := codec.Unmarshal(snap, codec.JSON, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	return restored, nil
}

// Reset drops all history and records t as the only state.
func (m *Manager) Reset(t *tree.Tree) error {
	m.undo = nil
	m.redo = nil
	return m.Commit(t)
}

// Len returns the sizes of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) {
	return len(m.undo), len(m.redo)
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 1 }

func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }
