// Package geometry provides the layout helpers used to place nodes on the
// canvas and to anchor connector lines on node outlines.
package geometry

import "math"

// Node outline dimensions. Every node is drawn as an ellipse inscribed in a
// NodeWidth x NodeHeight box centered on the node position.
const (
	NodeWidth  = 100.0
	NodeHeight = 60.0

	// ChildDistance is the radial distance between a parent and a freshly added child.
	ChildDistance = 150.0
	// ChildAngleStep is the angular step, in degrees, between consecutive siblings.
	ChildAngleStep = 60

	// MarginX and MarginY keep node centers away from the canvas edges.
	MarginX = 60.0
	MarginY = 40.0
)

// Point is a location in canvas space.
type Point struct {
	X, Y float64
}

// Vec is a displacement in canvas space.
type Vec struct {
	DX, DY float64
}

// Add returns p translated by v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Rect is an axis aligned rectangle. Min is the top-left corner.
type Rect struct {
	Min, Max Point
}

// NewRect returns the rectangle with the given origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the middle point of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// NodeBox returns the bounding box of a node centered on c.
func NodeBox(c Point) Rect {
	return Rect{
		Min: Point{X: c.X - NodeWidth/2, Y: c.Y - NodeHeight/2},
		Max: Point{X: c.X + NodeWidth/2, Y: c.Y + NodeHeight/2},
	}
}

// EdgeAnchor returns the point on the outline of the node centered at from,
// in the direction of the node centered at to.
//
// The point is taken from the parametric form of the outline ellipse using the
// angle between the two centers, not from a true line/ellipse intersection.
// Connector endpoints rely on this exact formula.
func EdgeAnchor(from, to Point) Point {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	return Point{
		X: from.X + (NodeWidth/2)*math.Cos(angle),
		Y: from.Y + (NodeHeight/2)*math.Sin(angle),
	}
}

// Connector returns both endpoints of the line joining parent and child.
func Connector(parent, child Point) (start, end Point) {
	return EdgeAnchor(parent, child), EdgeAnchor(child, parent)
}

// DefaultChildOffset returns the offset from a parent at which its
// siblingIndex-th child is placed.
func DefaultChildOffset(siblingIndex int) Vec {
	deg := (siblingIndex * ChildAngleStep) % 360
	if deg < 0 {
		deg += 360
	}
	rad := float64(deg) * math.Pi / 180
	return Vec{DX: ChildDistance * math.Cos(rad), DY: ChildDistance * math.Sin(rad)}
}

// Clamp moves p inside bounds so that a node centered on it keeps MarginX and
// MarginY away from every edge. When bounds are too small to honor both
// margins the lower margin wins.
func Clamp(p Point, bounds Rect) Point {
	return Point{
		X: math.Max(bounds.Min.X+MarginX, math.Min(bounds.Max.X-MarginX, p.X)),
		Y: math.Max(bounds.Min.Y+MarginY, math.Min(bounds.Max.Y-MarginY, p.Y)),
	}
}
