// Package tree implements the in-memory mind map model: a single-rooted tree
// of labeled, colored, positioned nodes. It has no rendering knowledge; visual
// handles are kept by the renderer in its own table keyed by NodeID.
package tree

import (
	"mindnoscape/canvas-app/internal/geometry"
)

// NodeID identifies a node for the lifetime of the tree that created it.
// IDs are never reused within a tree; a freshly decoded tree starts over.
type NodeID uint64

// Node is a single mind map entry.
type Node struct {
	ID    NodeID
	Text  string
	X     float64
	Y     float64
	Color string

	parent   *Node
	children []*Node
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered child list. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Position returns the node center.
func (n *Node) Position() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// childIndex returns the position of c in n's child list, or -1.
func (n *Node) childIndex(c *Node) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	return -1
}
