package tree

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/palette"
)

// Options carries the document-independent settings a tree is created with.
type Options struct {
	// Bounds is the visible canvas; new children are clamped inside it.
	Bounds geometry.Rect
	// Root is where the root of a new document is placed.
	Root geometry.Point
	// DefaultColor is given to new nodes and to decoded nodes without a color.
	DefaultColor string
}

// DefaultOptions returns the options of an 800x600 canvas.
func DefaultOptions() Options {
	return Options{
		Bounds:       geometry.NewRect(0, 0, 800, 600),
		Root:         geometry.Point{X: 400, Y: 300},
		DefaultColor: palette.DefaultNode,
	}
}

// Tree is a single-rooted tree of nodes. Nodes are kept both in parent/child
// links and in creation order, which drives hit testing and search order.
type Tree struct {
	root   *Node
	nodes  map[NodeID]*Node
	order  []*Node
	nextID NodeID
	opts   Options
}

// New creates a document whose root carries label and sits at opts.Root.
func New(label string, opts Options) *Tree {
	return NewAt(label, opts.Root, "", opts)
}

// NewAt creates a document whose root is placed at pos with the given color.
// An empty color selects opts.DefaultColor.
func NewAt(label string, pos geometry.Point, color string, opts Options) *Tree {
	if opts.DefaultColor == "" {
		opts.DefaultColor = palette.DefaultNode
	}
	t := &Tree{
		nodes: make(map[NodeID]*Node),
		opts:  opts,
	}
	t.root = t.insert(nil, label, pos, color)
	return t
}

// insert creates a node and links it below parent. parent is nil only for the root.
func (t *Tree) insert(parent *Node, text string, pos geometry.Point, color string) *Node {
	if color == "" {
		color = t.opts.DefaultColor
	}
	t.nextID++
	n := &Node{
		ID:     t.nextID,
		Text:   text,
		X:      pos.X,
		Y:      pos.Y,
		Color:  color,
		parent: parent,
	}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	t.nodes[n.ID] = n
	t.order = append(t.order, n)
	return n
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Options returns the options the tree was created with.
func (t *Tree) Options() Options {
	return t.opts
}

// SetBounds updates the canvas bounds used to clamp new children.
func (t *Tree) SetBounds(bounds geometry.Rect) {
	t.opts.Bounds = bounds
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Contains reports whether n is a live node of this tree.
func (t *Tree) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	return t.nodes[n.ID] == n
}

// Nodes returns all nodes in creation order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.order))
	copy(out, t.order)
	return out
}

// AddChild appends a new child labeled label to parent. The child is placed
// around the parent according to the number of existing siblings and clamped
// into the canvas bounds.
func (t *Tree) AddChild(parent *Node, label string) (*Node, error) {
	if !t.Contains(parent) {
		return nil, fmt.Errorf("%w: parent node is not part of the tree", ErrInvalidOperation)
	}

	if err := checkLabel(label); err != nil {
		return nil, err
	}

	offset := geometry.DefaultChildOffset(len(parent.children))
	pos := geometry.Clamp(parent.Position().Add(offset), t.opts.Bounds)

	return t.insert(parent, label, pos, ""), nil
}

// Place appends a child at an exact position without clamping. It is used to
// rebuild trees from documents.
func (t *Tree) Place(parent *Node, text string, pos geometry.Point, color string) (*Node, error) {
	if !t.Contains(parent) {
		return nil, fmt.Errorf("%w: parent node is not part of the tree", ErrInvalidOperation)
	}
	if err := checkLabel(text); err != nil {
		return nil, err
	}
	return t.insert(parent, text, pos, color), nil
}

// DeleteSubtree removes n and all of its descendants. Descendants are removed
// before their ancestors. The removed IDs are returned in removal order.
func (t *Tree) DeleteSubtree(n *Node) ([]NodeID, error) {
	if !t.Contains(n) {
		return nil, fmt.Errorf("%w: node is not part of the tree", ErrInvalidOperation)
	}
	if n == t.root {
		return nil, fmt.Errorf("%w: cannot delete the root node", ErrInvalidOperation)
	}

	parent := n.parent
	idx := parent.childIndex(n)
	if idx < 0 {
		return nil, fmt.Errorf("%w: node %d missing from its parent", ErrBrokenTree, n.ID)
	}

	removed := postOrder(n)
	gone := make(map[NodeID]struct{}, len(removed))
	ids := make([]NodeID, 0, len(removed))
	for _, r := range removed {
		delete(t.nodes, r.ID)
		gone[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}

	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)

	kept := t.order[:0]
	for _, o := range t.order {
		if _, ok := gone[o.ID]; !ok {
			kept = append(kept, o)
		}
	}
	// Drop stale pointers left in the tail of the reused backing array
	for i := len(kept); i < len(t.order); i++ {
		t.order[i] = nil
	}
	t.order = kept

	for _, r := range removed {
		r.parent = nil
		r.children = nil
	}

	return ids, nil
}

// postOrder lists the subtree of n, children before their parent.
func postOrder(n *Node) []*Node {
	type frame struct {
		node *Node
		next int
	}
	var out []*Node
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.children) {
			child := top.node.children[top.next]
			top.next++
			stack = append(stack, frame{node: child})
			continue
		}
		out = append(out, top.node)
		stack = stack[:len(stack)-1]
	}
	return out
}

// EditText replaces the label of n.
func (t *Tree) EditText(n *Node, text string) error {
	if !t.Contains(n) {
		return fmt.Errorf("%w: node is not part of the tree", ErrInvalidOperation)
	}
	if err := checkLabel(text); err != nil {
		return err
	}
	n.Text = text
	return nil
}

// checkLabel rejects text that is not valid UTF-8. Every document format
// would rewrite such bytes.
func checkLabel(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: label %q is not valid UTF-8", ErrInvalidOperation, text)
	}
	return nil
}

// SetColor replaces the fill color of n. The color must be a known name or a hex value.
func (t *Tree) SetColor(n *Node, color string) error {
	if !t.Contains(n) {
		return fmt.Errorf("%w: node is not part of the tree", ErrInvalidOperation)
	}
	if !palette.Valid(color) {
		return fmt.Errorf("%w: %q is not a color", ErrInvalidOperation, color)
	}
	n.Color = color
	return nil
}

// MoveTo sets the position of n. Descendants keep their positions.
func (t *Tree) MoveTo(n *Node, x, y float64) error {
	if !t.Contains(n) {
		return fmt.Errorf("%w: node is not part of the tree", ErrInvalidOperation)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: position (%v, %v) is not finite", ErrInvalidOperation, x, y)
	}
	n.X, n.Y = x, y
	return nil
}

// FindByPosition returns the first node, in creation order, whose bounding
// box contains (x, y), or nil.
func (t *Tree) FindByPosition(x, y float64) *Node {
	p := geometry.Point{X: x, Y: y}
	for _, n := range t.order {
		if geometry.NodeBox(n.Position()).Contains(p) {
			return n
		}
	}
	return nil
}

// FindByTextSubstring returns the nodes whose label contains query, ignoring
// case, in creation order. An empty query matches nothing.
func (t *Tree) FindByTextSubstring(query string) []*Node {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var found []*Node
	for _, n := range t.order {
		if strings.Contains(strings.ToLower(n.Text), q) {
			found = append(found, n)
		}
	}
	return found
}

// Walk visits the subtree of start in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(start *Node, fn func(n *Node, depth int) bool) {
	if start == nil {
		start = t.root
	}
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.children {
			visit(c, depth+1)
		}
	}
	visit(start, 0)
}

// Descendants returns every node below n in pre-order.
func (t *Tree) Descendants(n *Node) []*Node {
	var out []*Node
	t.Walk(n, func(d *Node, depth int) bool {
		if depth > 0 {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Depth returns the number of levels in the tree; a lone root has depth 1.
func (t *Tree) Depth() int {
	deepest := 0
	t.Walk(nil, func(_ *Node, depth int) bool {
		if depth+1 > deepest {
			deepest = depth + 1
		}
		return true
	})
	return deepest
}

// Outline renders the subtree of start as indented text, two spaces per level.
func (t *Tree) Outline(start *Node) string {
	var b strings.Builder
	t.Walk(start, func(n *Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Text)
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// Validate checks the structural invariants: a single parentless root,
// consistent parent/child links, every node reachable exactly once, and a
// creation order list matching the node set.
func (t *Tree) Validate() error {
	if t.root == nil {
		return fmt.Errorf("%w: no root", ErrBrokenTree)
	}
	if t.root.parent != nil {
		return fmt.Errorf("%w: root has a parent", ErrBrokenTree)
	}

	seen := make(map[NodeID]bool, len(t.nodes))
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.ID] {
			return fmt.Errorf("%w: node %d reached twice", ErrBrokenTree, n.ID)
		}
		seen[n.ID] = true
		if t.nodes[n.ID] != n {
			return fmt.Errorf("%w: node %d not registered", ErrBrokenTree, n.ID)
		}
		for _, c := range n.children {
			if c.parent != n {
				return fmt.Errorf("%w: node %d does not point back to parent %d", ErrBrokenTree, c.ID, n.ID)
			}
			stack = append(stack, c)
		}
	}

	if len(seen) != len(t.nodes) {
		return fmt.Errorf("%w: %d nodes unreachable from root", ErrBrokenTree, len(t.nodes)-len(seen))
	}
	if len(t.order) != len(t.nodes) {
		return fmt.Errorf("%w: creation order holds %d nodes, expected %d", ErrBrokenTree, len(t.order), len(t.nodes))
	}
	for _, n := range t.order {
		if t.nodes[n.ID] != n {
			return fmt.Errorf("%w: stale node %d in creation order", ErrBrokenTree, n.ID)
		}
		if n.parent != nil && n.parent.childIndex(n) < 0 {
			return fmt.Errorf("%w: node %d missing from parent %d", ErrBrokenTree, n.ID, n.parent.ID)
		}
	}
	return nil
}
