package codec

import (
	"fmt"
	"math"
	"unicode/utf8"

	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/palette"
	"mindnoscape/canvas-app/internal/tree"
)

// FromTree builds the document form of t with a pre-order walk.
func FromTree(t *tree.Tree) *Document {
	return &Document{Nodes: []Record{recordOf(t.Root())}}
}

func recordOf(n *tree.Node) Record {
	text, x, y, color := n.Text, n.X, n.Y, n.Color
	rec := Record{
		Text:     &text,
		X:        &x,
		Y:        &y,
		Color:    &color,
		Children: make([]Record, 0, len(n.Children())),
	}
	for _, c := range n.Children() {
		rec.Children = append(rec.Children, recordOf(c))
	}
	return rec
}

// Marshal serializes t in the given format, indented for humans.
func Marshal(t *tree.Tree, format Format) ([]byte, error) {
	data, err := encode(FromTree(t), format, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// Snapshot serializes t as compact JSON, the form kept by the undo history.
func Snapshot(t *tree.Tree) ([]byte, error) {
	data, err := encode(FromTree(t), JSON, false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Parse decodes data without building a tree.
func Parse(data []byte, format Format) (*Document, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return doc, nil
}

// Unmarshal decodes data and rebuilds the tree it describes.
func Unmarshal(data []byte, format Format, opts tree.Options) (*tree.Tree, error) {
	doc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Build reconstructs a tree from doc. Missing colors take opts.DefaultColor and
// missing children lists make leaves; a missing or malformed text, x or y
// field fails the whole document.
func Build(doc *Document, opts tree.Options) (*tree.Tree, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: document has no nodes", ErrCorruptDocument)
	}
	if len(doc.Nodes) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one root, found %d", ErrCorruptDocument, len(doc.Nodes))
	}

	// Check the whole document before building anything
	if err := validateRecord(&doc.Nodes[0], "nodes[0]"); err != nil {
		return nil, err
	}

	rootRec := &doc.Nodes[0]
	t := tree.NewAt(*rootRec.Text, geometry.Point{X: *rootRec.X, Y: *rootRec.Y}, colorOf(rootRec), opts)
	if err := buildChildren(t, t.Root(), rootRec.Children); err != nil {
		return nil, err
	}
	return t, nil
}

func buildChildren(t *tree.Tree, parent *tree.Node, recs []Record) error {
	for i := range recs {
		rec := &recs[i]
		n, err := t.Place(parent, *rec.Text, geometry.Point{X: *rec.X, Y: *rec.Y}, colorOf(rec))
		if err != nil {
			return fmt.Errorf("failed to place node: %w", err)
		}
		if err := buildChildren(t, n, rec.Children); err != nil {
			return err
		}
	}
	return nil
}

func colorOf(rec *Record) string {
	if rec.Color == nil {
		return ""
	}
	return *rec.Color
}

func validateRecord(rec *Record, path string) error {
	switch {
	case rec.Text == nil:
		return fmt.Errorf("%w: %s: missing text", ErrCorruptDocument, path)
	case !utf8.ValidString(*rec.Text):
		return fmt.Errorf("%w: %s: text is not valid UTF-8", ErrCorruptDocument, path)
	case rec.X == nil:
		return fmt.Errorf("%w: %s: missing x", ErrCorruptDocument, path)
	case rec.Y == nil:
		return fmt.Errorf("%w: %s: missing y", ErrCorruptDocument, path)
	case !finite(*rec.X) || !finite(*rec.Y):
		return fmt.Errorf("%w: %s: position is not finite", ErrCorruptDocument, path)
	case rec.Color != nil && *rec.Color != "" && !palette.Valid(*rec.Color):
		return fmt.Errorf("%w: %s: %q is not a color", ErrCorruptDocument, path, *rec.Color)
	}
	for i := range rec.Children {
		if err := validateRecord(&rec.Children[i], fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
