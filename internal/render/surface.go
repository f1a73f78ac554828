// Package render keeps a drawing surface in step with a tree document.
//
// The tree only knows about nodes; every shape drawn for a node is recorded in
// the renderer's handle table under the node's ID. Front ends read the
// resulting display list from a Canvas and rasterize or export it.
package render

import "mindnoscape/canvas-app/internal/geometry"

// ShapeID identifies an item on a surface. Zero is never a valid ID.
type ShapeID int

// Kind is the type of a surface item.
type Kind int

const (
	KindEllipse Kind = iota + 1
	KindText
	KindLine
)

// Surface is a retained-mode drawing surface.
type Surface interface {
	DrawEllipse(box geometry.Rect, fill, outline string, width float64) ShapeID
	DrawText(at geometry.Point, text string, wrap float64) ShapeID
	DrawLine(from, to geometry.Point, color string, width float64) ShapeID
	Move(id ShapeID, dx, dy float64)
	Delete(id ShapeID)

	SetFill(id ShapeID, fill string)
	SetOutline(id ShapeID, outline string, width float64)
	SetText(id ShapeID, text string)

	// Viewport returns the visible region in canvas coordinates.
	Viewport() geometry.Rect
	// ScrollTo makes origin the top left corner of the viewport.
	ScrollTo(origin geometry.Point)
}

// Style constants of node shapes.
const (
	OutlineWidth   = 2.0
	HighlightWidth = 4.0
	ConnectorWidth = 2.0
	LabelWrap      = 90.0
	FontSize       = 12.0
)
