package render

import (
	"testing"

	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/palette"
	"mindnoscape/canvas-app/internal/tree"
)

// scene builds root -> A -> A1 and root -> B and draws it.
func scene(t *testing.T) (*tree.Tree, *Canvas, *Renderer, map[string]*tree.Node) {
	t.Helper()
	tr := tree.New("Central Idea", tree.DefaultOptions())
	a, _ := tr.AddChild(tr.Root(), "A")
	b, _ := tr.AddChild(tr.Root(), "B")
	a1, _ := tr.AddChild(a, "A1")

	c := NewCanvas(800, 600)
	r := NewRenderer(c)
	r.Sync(tr)
	return tr, c, r, map[string]*tree.Node{"root": tr.Root(), "A": a, "B": b, "A1": a1}
}

func connectorOf(t *testing.T, c *Canvas, r *Renderer, n *tree.Node) Item {
	t.Helper()
	_, _, conn, ok := r.Shapes(n.ID)
	if !ok || conn == 0 {
		t.Fatalf("node %q has no connector", n.Text)
	}
	it, ok := c.Item(conn)
	if !ok {
		t.Fatalf("connector of %q missing from canvas", n.Text)
	}
	return it
}

func TestSyncDrawsEveryNode(t *testing.T) {
	tr, c, r, nodes := scene(t)
	if r.Len() != tr.Len() {
		t.Fatalf("handles = %d, want %d", r.Len(), tr.Len())
	}
	// two shapes per node plus one connector per non-root node
	if want := 2*tr.Len() + tr.Len() - 1; c.Len() != want {
		t.Errorf("canvas items = %d, want %d", c.Len(), want)
	}

	shape, label, conn, _ := r.Shapes(nodes["root"].ID)
	if conn != 0 {
		t.Error("root must not have a connector")
	}
	ellipse, _ := c.Item(shape)
	if ellipse.Box != geometry.NodeBox(geometry.Point{X: 400, Y: 300}) || ellipse.Fill != palette.DefaultNode {
		t.Errorf("root ellipse = %+v", ellipse)
	}
	text, _ := c.Item(label)
	if text.Text != "Central Idea" || text.At != (geometry.Point{X: 400, Y: 300}) {
		t.Errorf("root label = %+v", text)
	}

	line := connectorOf(t, c, r, nodes["A1"])
	start, end := geometry.Connector(nodes["A"].Position(), nodes["A1"].Position())
	if line.From != start || line.To != end {
		t.Errorf("connector = %v-%v, want %v-%v", line.From, line.To, start, end)
	}
}

func TestMoveNodeRedrawsConnectors(t *testing.T) {
	tr, c, r, nodes := scene(t)
	a := nodes["A"]
	oldChildConn := connectorOf(t, c, r, nodes["A1"]).ID

	tr.MoveTo(a, a.X+10, a.Y-20)
	r.MoveNode(a, 10, -20)

	shape, label, _, _ := r.Shapes(a.ID)
	ellipse, _ := c.Item(shape)
	if ellipse.Box != geometry.NodeBox(a.Position()) {
		t.Errorf("ellipse box %v, want %v", ellipse.Box, geometry.NodeBox(a.Position()))
	}
	text, _ := c.Item(label)
	if text.At != a.Position() {
		t.Errorf("label at %v, want %v", text.At, a.Position())
	}

	own := connectorOf(t, c, r, a)
	start, end := geometry.Connector(nodes["root"].Position(), a.Position())
	if own.From != start || own.To != end {
		t.Errorf("own connector not redrawn: %+v", own)
	}
	child := connectorOf(t, c, r, nodes["A1"])
	start, end = geometry.Connector(a.Position(), nodes["A1"].Position())
	if child.From != start || child.To != end {
		t.Errorf("child connector not redrawn: %+v", child)
	}
	if _, ok := c.Item(oldChildConn); ok {
		t.Error("stale child connector left on the canvas")
	}
	if want := 2*tr.Len() + tr.Len() - 1; c.Len() != want {
		t.Errorf("canvas items = %d, want %d", c.Len(), want)
	}
}

func TestRemoveNodes(t *testing.T) {
	tr, c, r, nodes := scene(t)
	ids, err := tr.DeleteSubtree(nodes["A"])
	if err != nil {
		t.Fatal(err)
	}
	r.RemoveNodes(ids)
	if r.Len() != 2 {
		t.Errorf("handles = %d, want 2", r.Len())
	}
	if c.Len() != 5 {
		t.Errorf("canvas items = %d, want 5", c.Len())
	}
}

func TestSelectAndHighlight(t *testing.T) {
	tr, c, r, nodes := scene(t)
	fillOf := func(n *tree.Node) string {
		shape, _, _, _ := r.Shapes(n.ID)
		it, _ := c.Item(shape)
		return it.Fill
	}
	outlineOf := func(n *tree.Node) (string, float64) {
		shape, _, _, _ := r.Shapes(n.ID)
		it, _ := c.Item(shape)
		return it.Outline, it.Width
	}

	r.Select(tr, nodes["A"].ID)
	if fillOf(nodes["A"]) != palette.Selected {
		t.Error("selected node not filled")
	}
	r.Select(tr, nodes["B"].ID)
	if fillOf(nodes["A"]) != palette.DefaultNode || fillOf(nodes["B"]) != palette.Selected {
		t.Error("selection fill not moved")
	}

	r.Highlight(tr, []tree.NodeID{nodes["A1"].ID})
	if o, w := outlineOf(nodes["A1"]); o != palette.Highlight || w != HighlightWidth {
		t.Errorf("match outline = %s/%v", o, w)
	}
	if o, w := outlineOf(nodes["A"]); o != palette.Outline || w != OutlineWidth {
		t.Errorf("non-match outline = %s/%v", o, w)
	}
	r.Highlight(tr, nil)
	if o, _ := outlineOf(nodes["A1"]); o != palette.Outline {
		t.Error("highlight not cleared")
	}

	// Redrawn nodes keep their highlight
	r.Highlight(tr, []tree.NodeID{nodes["B"].ID})
	r.DrawNode(nodes["B"])
	if o, _ := outlineOf(nodes["B"]); o != palette.Highlight {
		t.Error("redraw lost the highlight")
	}
}

func TestCenterOn(t *testing.T) {
	tr, c, r, _ := scene(t)
	far, _ := tr.Place(tr.Root(), "far", geometry.Point{X: 1500, Y: 1000}, "")
	r.DrawNode(far)

	r.CenterOn(far)
	if got := c.Viewport().Min; got != (geometry.Point{X: 1100, Y: 700}) {
		t.Errorf("origin = %v", got)
	}
	r.CenterOn(tr.Root())
	if got := c.Viewport().Min; got != (geometry.Point{}) {
		t.Errorf("origin = %v, want clamped to zero", got)
	}
}

func TestAttachFollowsEvents(t *testing.T) {
	em := event.NewEventManager(nil)
	c := NewCanvas(800, 600)
	r := NewRenderer(c)
	r.Attach(em)

	tr := tree.New("root", tree.DefaultOptions())
	em.Publish(event.Event{Type: event.DocumentReplaced, Data: event.DocumentData{Tree: tr}})
	n, _ := tr.AddChild(tr.Root(), "child")
	em.Publish(event.Event{Type: event.NodeAdded, Data: event.NodeData{Tree: tr, Node: n}})
	if r.Len() != 2 || c.Len() != 5 {
		t.Fatalf("after add: handles %d, items %d", r.Len(), c.Len())
	}

	tr.EditText(n, "renamed")
	em.Publish(event.Event{Type: event.NodeUpdated, Data: event.NodeData{Tree: tr, Node: n}})
	_, label, _, _ := r.Shapes(n.ID)
	if it, _ := c.Item(label); it.Text != "renamed" {
		t.Errorf("label = %q", it.Text)
	}

	ids, _ := tr.DeleteSubtree(n)
	em.Publish(event.Event{Type: event.NodeDeleted, Data: event.DeleteData{Tree: tr, IDs: ids}})
	if r.Len() != 1 || c.Len() != 2 {
		t.Errorf("after delete: handles %d, items %d", r.Len(), c.Len())
	}
}
