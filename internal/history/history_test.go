package history

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"mindnoscape/canvas-app/internal/codec"
	"mindnoscape/canvas-app/internal/tree"
)

type fataler interface {
	Fatal(args ...any)
}

func snapshot(t fataler, tr *tree.Tree) []byte {
	data, err := codec.Snapshot(tr)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func labels(tr *tree.Tree) []string {
	var out []string
	tr.Walk(nil, func(n *tree.Node, _ int) bool {
		out = append(out, n.Text)
		return true
	})
	return out
}

func TestUndoFloor(t *testing.T) {
	m := NewManager(0)
	tr := tree.New("Central Idea", tree.DefaultOptions())
	if err := m.Commit(tr); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Undo(tr)
	if err != nil || ok {
		t.Fatalf("Undo() = %v, %v; want no-op", ok, err)
	}
	if got != tr {
		t.Error("Undo at the floor should return the same tree")
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("nothing to undo or redo expected")
	}
}

func TestUndoRedoScenario(t *testing.T) {
	m := NewManager(0)
	tr := tree.New("Central Idea", tree.DefaultOptions())
	m.Commit(tr)
	tr.AddChild(tr.Root(), "A")
	m.Commit(tr)
	tr.AddChild(tr.Root(), "B")
	m.Commit(tr)

	tr, ok, err := m.Undo(tr)
	if err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if got := labels(tr); len(got) != 2 || got[1] != "A" {
		t.Fatalf("after undo labels = %v", got)
	}

	tr, ok, err = m.Redo(tr)
	if err != nil || !ok {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	if got := labels(tr); len(got) != 3 || got[2] != "B" {
		t.Fatalf("after redo labels = %v", got)
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Redo(tr); ok {
		t.Error("second redo should be a no-op")
	}
}

func TestCommitClearsRedo(t *testing.T) {
	m := NewManager(0)
	tr := tree.New("root", tree.DefaultOptions())
	m.Commit(tr)
	tr.AddChild(tr.Root(), "A")
	m.Commit(tr)

	tr, _, _ = m.Undo(tr)
	if !m.CanRedo() {
		t.Fatal("redo expected after undo")
	}
	tr.AddChild(tr.Root(), "C")
	m.Commit(tr)
	if m.CanRedo() {
		t.Error("commit should clear redo")
	}
	if u, r := m.Len(); u != 2 || r != 0 {
		t.Errorf("Len() = %d, %d; want 2, 0", u, r)
	}
}

func TestRestoreKeepsOptions(t *testing.T) {
	opts := tree.DefaultOptions()
	opts.DefaultColor = "pink"
	m := NewManager(0)
	tr := tree.New("root", opts)
	m.Commit(tr)
	tr.AddChild(tr.Root(), "A")
	m.Commit(tr)

	restored, _, err := m.Undo(tr)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Options().DefaultColor != "pink" {
		t.Errorf("options not carried over: %+v", restored.Options())
	}
	if restored.Root() == tr.Root() {
		t.Error("restore should build fresh nodes")
	}
}

func TestCorruptSnapshotLeavesStacks(t *testing.T) {
	m := NewManager(0)
	tr := tree.New("root", tree.DefaultOptions())
	m.Commit(tr)
	tr.AddChild(tr.Root(), "A")
	m.Commit(tr)
	m.undo[0] = []byte("{not json")

	got, ok, err := m.Undo(tr)
	if !errors.Is(err, codec.ErrCorruptDocument) {
		t.Fatalf("Undo() error = %v, want ErrCorruptDocument", err)
	}
	if ok || got != tr {
		t.Error("failed undo should keep the live tree")
	}
	if u, r := m.Len(); u != 2 || r != 0 {
		t.Errorf("Len() = %d, %d; want 2, 0", u, r)
	}

	m.undo[0] = snapshot(t, tree.New("root", tree.DefaultOptions()))
	m.Undo(tr)
	m.redo[0] = []byte("[]")
	if _, _, err := m.Redo(tr); err == nil {
		t.Fatal("Redo() should fail on a corrupt snapshot")
	}
	if u, r := m.Len(); u != 1 || r != 1 {
		t.Errorf("Len() = %d, %d; want 1, 1", u, r)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	m := NewManager(3)
	tr := tree.New("root", tree.DefaultOptions())
	m.Commit(tr)
	for _, label := range []string{"A", "B", "C", "D"} {
		tr.AddChild(tr.Root(), label)
		m.Commit(tr)
	}
	if u, _ := m.Len(); u != 3 {
		t.Fatalf("undo stack = %d, want 3", u)
	}

	steps := 0
	for {
		next, ok, err := m.Undo(tr)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		tr = next
		steps++
	}
	if steps != 2 {
		t.Errorf("undo steps = %d, want 2", steps)
	}
	if got := labels(tr); len(got) != 3 {
		t.Errorf("oldest reachable state = %v", got)
	}
}

func TestReset(t *testing.T) {
	m := NewManager(0)
	tr := tree.New("root", tree.DefaultOptions())
	m.Commit(tr)
	tr.AddChild(tr.Root(), "A")
	m.Commit(tr)
	m.Undo(tr)

	fresh := tree.New("other", tree.DefaultOptions())
	if err := m.Reset(fresh); err != nil {
		t.Fatal(err)
	}
	if u, r := m.Len(); u != 1 || r != 0 {
		t.Errorf("Len() = %d, %d; want 1, 0", u, r)
	}
}

// Undoing k steps returns the k-th previous commit and redoing them returns
// the latest one.
func TestUndoRedoInverseProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewManager(0)
		tr := tree.New("root", tree.DefaultOptions())
		m.Commit(tr)
		states := [][]byte{snapshot(t, tr)}

		ops := rapid.IntRange(1, 15).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			nodes := tr.Nodes()
			n := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "node")]
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				tr.AddChild(n, rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "label"))
			case 1:
				if n.IsRoot() {
					continue
				}
				tr.DeleteSubtree(n)
			case 2:
				tr.EditText(n, rapid.StringMatching(`[A-Z]{1,6}`).Draw(t, "text"))
			case 3:
				tr.MoveTo(n, rapid.Float64Range(0, 800).Draw(t, "x"), rapid.Float64Range(0, 600).Draw(t, "y"))
			}
			if err := m.Commit(tr); err != nil {
				t.Fatal(err)
			}
			states = append(states, snapshot(t, tr))
		}

		k := rapid.IntRange(0, len(states)-1).Draw(t, "k")
		for i := 0; i < k; i++ {
			next, ok, err := m.Undo(tr)
			if err != nil || !ok {
				t.Fatalf("undo %d: ok=%v err=%v", i, ok, err)
			}
			tr = next
		}
		if want := states[len(states)-1-k]; !bytes.Equal(snapshot(t, tr), want) {
			t.Fatalf("after %d undos got %s want %s", k, snapshot(t, tr), want)
		}
		for i := 0; i < k; i++ {
			next, ok, err := m.Redo(tr)
			if err != nil || !ok {
				t.Fatalf("redo %d: ok=%v err=%v", i, ok, err)
			}
			tr = next
		}
		if want := states[len(states)-1]; !bytes.Equal(snapshot(t, tr), want) {
			t.Fatalf("after redo got %s want %s", snapshot(t, tr), want)
		}
	})
}
