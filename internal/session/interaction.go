package session

import (
	"mindnoscape/canvas-app/internal/event"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/tree"
)

// Intent tells a front end which dialog a double click asks for.
type Intent int

const (
	// IntentEditText asks for a new label for the selected node.
	IntentEditText Intent = iota + 1
	// IntentAddChild asks for the label of a new child of the selected node.
	IntentAddChild
)

func (i Intent) String() string {
	switch i {
	case IntentEditText:
		return "edit"
	case IntentAddChild:
		return "add"
	default:
		return "none"
	}
}

// Click selects the node under (x, y) and starts dragging it. Clicking empty
// canvas clears the selection.
func (s *Session) Click(x, y float64) *tree.Node {
	n := s.tree.FindByPosition(x, y)
	s.setSelected(n)
	if n == nil {
		s.drag = dragState{}
		return nil
	}
	p := geometry.Point{X: x, Y: y}
	s.drag = dragState{node: n, start: n.Position(), last: p, active: true}
	return n
}

// Drag moves the node grabbed by Click along with the pointer. Intermediate
// positions are not committed.
func (s *Session) Drag(x, y float64) bool {
	if !s.drag.active || !s.tree.Contains(s.drag.node) {
		return false
	}
	dx, dy := x-s.drag.last.X, y-s.drag.last.Y
	if dx == 0 && dy == 0 {
		return false
	}
	n := s.drag.node
	if err := s.tree.MoveTo(n, n.X+dx, n.Y+dy); err != nil {
		s.logger.Warn(s.ctx, "Drag rejected", log.Fields{"error": err})
		return false
	}
	s.drag.last = geometry.Point{X: x, Y: y}
	s.publish(event.NodeMoved, event.NodeData{Tree: s.tree, Node: n, DX: dx, DY: dy})
	return true
}

// Release ends a drag. The final position is committed when the node moved.
func (s *Session) Release() (bool, error) {
	if !s.drag.active {
		return false, nil
	}
	d := s.drag
	s.drag = dragState{}
	if !s.tree.Contains(d.node) || d.node.Position() == d.start {
		return false, nil
	}
	if err := s.commit(); err != nil {
		return false, err
	}
	s.logger.Info(s.ctx, "Node moved", log.Fields{"id": d.node.ID, "x": d.node.X, "y": d.node.Y})
	return true, nil
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	return s.drag.active
}

// DoubleClick selects the node under (x, y) and asks for its label to be
// edited. On empty canvas it asks for a new child of the current selection.
func (s *Session) DoubleClick(x, y float64) Intent {
	if n := s.tree.FindByPosition(x, y); n != nil {
		s.setSelected(n)
		return IntentEditText
	}
	return IntentAddChild
}

// Select makes the node with the given ID the selection.
func (s *Session) Select(id tree.NodeID) (*tree.Node, error) {
	n := s.tree.Node(id)
	if n == nil {
		return nil, ErrNoSelection
	}
	s.setSelected(n)
	return n, nil
}

// ClearSelection deselects the selected node.
func (s *Session) ClearSelection() {
	s.setSelected(nil)
}
