package render

import (
	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/palette"
	"mindnoscape/canvas-app/internal/tree"
)

// handles are the shapes drawn for one node. connector is zero for the root.
type handles struct {
	shape     ShapeID
	label     ShapeID
	connector ShapeID
}

// Renderer mirrors a tree onto a Surface.
type Renderer struct {
	surface     Surface
	handles     map[tree.NodeID]handles
	selected    tree.NodeID
	highlighted map[tree.NodeID]bool
}

// NewRenderer creates a renderer drawing on s.
func NewRenderer(s Surface) *Renderer {
	return &Renderer{
		surface:     s,
		handles:     make(map[tree.NodeID]handles),
		highlighted: make(map[tree.NodeID]bool),
	}
}

// Surface returns the surface the renderer draws on.
func (r *Renderer) Surface() Surface {
	return r.surface
}

// Attach subscribes the renderer to the document events published on em.
func (r *Renderer) Attach(em *event.EventManager) {
	em.Subscribe(event.NodeAdded, func(e event.Event) {
		d := e.Data.(event.NodeData)
		r.DrawNode(d.Node)
	})
	em.Subscribe(event.NodeDeleted, func(e event.Event) {
		r.RemoveNodes(e.Data.(event.DeleteData).IDs)
	})
	em.Subscribe(event.NodeUpdated, func(e event.Event) {
		r.UpdateNode(e.Data.(event.NodeData).Node)
	})
	em.Subscribe(event.NodeMoved, func(e event.Event) {
		d := e.Data.(event.NodeData)
		r.MoveNode(d.Node, d.DX, d.DY)
	})
	em.Subscribe(event.DocumentReplaced, func(e event.Event) {
		r.Sync(e.Data.(event.DocumentData).Tree)
	})
	em.Subscribe(event.SelectionChanged, func(e event.Event) {
		d := e.Data.(event.SelectionData)
		r.Select(d.Tree, d.Current)
	})
	em.Subscribe(event.HighlightChanged, func(e event.Event) {
		d := e.Data.(event.HighlightData)
		r.Highlight(d.Tree, d.IDs)
	})
	em.Subscribe(event.ViewCentered, func(e event.Event) {
		r.CenterOn(e.Data.(event.CenterData).Node)
	})
}

// Sync discards every shape and redraws t in creation order.
func (r *Renderer) Sync(t *tree.Tree) {
	for _, h := range r.handles {
		r.deleteHandles(h)
	}
	r.handles = make(map[tree.NodeID]handles)
	r.highlighted = make(map[tree.NodeID]bool)
	r.selected = 0
	if c, ok := r.surface.(*Canvas); ok {
		c.Clear()
	}
	for _, n := range t.Nodes() {
		r.DrawNode(n)
	}
}

// DrawNode draws the ellipse, label and parent connector of n. A node that is
// already drawn is redrawn.
func (r *Renderer) DrawNode(n *tree.Node) {
	if h, ok := r.handles[n.ID]; ok {
		r.deleteHandles(h)
	}
	outline, width := r.outline(n.ID)
	h := handles{
		shape: r.surface.DrawEllipse(geometry.NodeBox(n.Position()), r.fill(n), outline, width),
		label: r.surface.DrawText(n.Position(), n.Text, LabelWrap),
	}
	if p := n.Parent(); p != nil {
		h.connector = r.drawConnector(p, n)
	}
	r.handles[n.ID] = h
}

func (r *Renderer) drawConnector(parent, child *tree.Node) ShapeID {
	start, end := geometry.Connector(parent.Position(), child.Position())
	return r.surface.DrawLine(start, end, palette.Outline, ConnectorWidth)
}

func (r *Renderer) deleteHandles(h handles) {
	r.surface.Delete(h.shape)
	r.surface.Delete(h.label)
	if h.connector != 0 {
		r.surface.Delete(h.connector)
	}
}

// RemoveNodes deletes the shapes of the given nodes.
func (r *Renderer) RemoveNodes(ids []tree.NodeID) {
	for _, id := range ids {
		h, ok := r.handles[id]
		if !ok {
			continue
		}
		r.deleteHandles(h)
		delete(r.handles, id)
		delete(r.highlighted, id)
		if r.selected == id {
			r.selected = 0
		}
	}
}

// UpdateNode refreshes the label and fill of n.
func (r *Renderer) UpdateNode(n *tree.Node) {
	h, ok := r.handles[n.ID]
	if !ok {
		return
	}
	r.surface.SetText(h.label, n.Text)
	r.surface.SetFill(h.shape, r.fill(n))
}

// MoveNode shifts the shapes of n by (dx, dy) after n itself was moved, then
// redraws the connector to its parent and those to its direct children.
func (r *Renderer) MoveNode(n *tree.Node, dx, dy float64) {
	h, ok := r.handles[n.ID]
	if !ok {
		return
	}
	r.surface.Move(h.shape, dx, dy)
	r.surface.Move(h.label, dx, dy)

	if p := n.Parent(); p != nil {
		if h.connector != 0 {
			r.surface.Delete(h.connector)
		}
		h.connector = r.drawConnector(p, n)
		r.handles[n.ID] = h
	}

	for _, c := range n.Children() {
		ch, ok := r.handles[c.ID]
		if !ok {
			continue
		}
		if ch.connector != 0 {
			r.surface.Delete(ch.connector)
		}
		ch.connector = r.drawConnector(n, c)
		r.handles[c.ID] = ch
	}
}

// Select paints the selected node and restores the fill of the previous one.
// A zero id clears the selection.
func (r *Renderer) Select(t *tree.Tree, id tree.NodeID) {
	prev := r.selected
	r.selected = id
	if prev != 0 && prev != id {
		if n := t.Node(prev); n != nil {
			r.UpdateNode(n)
		}
	}
	if n := t.Node(id); n != nil {
		r.UpdateNode(n)
	}
}

// Highlight outlines exactly the given nodes and resets all others.
func (r *Renderer) Highlight(t *tree.Tree, ids []tree.NodeID) {
	r.highlighted = make(map[tree.NodeID]bool, len(ids))
	for _, id := range ids {
		r.highlighted[id] = true
	}
	for id, h := range r.handles {
		outline, width := r.outline(id)
		r.surface.SetOutline(h.shape, outline, width)
	}
}

// CenterOn scrolls the viewport so n is in its middle, never past the top
// left corner of the canvas.
func (r *Renderer) CenterOn(n *tree.Node) {
	if n == nil {
		return
	}
	vp := r.surface.Viewport()
	r.surface.ScrollTo(geometry.Point{
		X: max(0, n.X-vp.Width()/2),
		Y: max(0, n.Y-vp.Height()/2),
	})
}

func (r *Renderer) fill(n *tree.Node) string {
	if n.ID == r.selected {
		return palette.Selected
	}
	return n.Color
}

func (r *Renderer) outline(id tree.NodeID) (string, float64) {
	if r.highlighted[id] {
		return palette.Highlight, HighlightWidth
	}
	return palette.Outline, OutlineWidth
}

// Shapes returns the shape, label and connector IDs drawn for id.
func (r *Renderer) Shapes(id tree.NodeID) (shape, label, connector ShapeID, ok bool) {
	h, ok := r.handles[id]
	return h.shape, h.label, h.connector, ok
}

// Selected returns the node painted as selected, or zero.
func (r *Renderer) Selected() tree.NodeID {
	return r.selected
}

// Len returns the number of nodes with shapes.
func (r *Renderer) Len() int {
	return len(r.handles)
}
