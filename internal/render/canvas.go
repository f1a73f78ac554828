package render

import (
	"mindnoscape/canvas-app/internal/geometry"
)

// Item is one entry of a Canvas display list.
type Item struct {
	ID   ShapeID
	Kind Kind

	// Box bounds an ellipse.
	Box geometry.Rect
	// At is the center of a text item.
	At geometry.Point
	// From and To are the end points of a line.
	From, To geometry.Point

	Text    string
	Wrap    float64
	Fill    string
	Outline string
	Width   float64
}

// Bounds returns the area the item covers. Text is approximated by its
// anchor point.
func (it Item) Bounds() geometry.Rect {
	switch it.Kind {
	case KindEllipse:
		return it.Box
	case KindLine:
		return geometry.Rect{
			Min: geometry.Point{X: min(it.From.X, it.To.X), Y: min(it.From.Y, it.To.Y)},
			Max: geometry.Point{X: max(it.From.X, it.To.X), Y: max(it.From.Y, it.To.Y)},
		}
	default:
		return geometry.Rect{Min: it.At, Max: it.At}
	}
}

// Canvas is an in-memory Surface. Items are painted in creation order.
type Canvas struct {
	items  map[ShapeID]*Item
	order  []ShapeID
	nextID ShapeID
	size   geometry.Vec
	origin geometry.Point
}

// NewCanvas creates an empty canvas whose viewport is width x height.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{
		items: make(map[ShapeID]*Item),
		size:  geometry.Vec{DX: width, DY: height},
	}
}

func (c *Canvas) add(it Item) ShapeID {
	c.nextID++
	it.ID = c.nextID
	c.items[it.ID] = &it
	c.order = append(c.order, it.ID)
	return it.ID
}

func (c *Canvas) DrawEllipse(box geometry.Rect, fill, outline string, width float64) ShapeID {
	return c.add(Item{Kind: KindEllipse, Box: box, Fill: fill, Outline: outline, Width: width})
}

func (c *Canvas) DrawText(at geometry.Point, text string, wrap float64) ShapeID {
	return c.add(Item{Kind: KindText, At: at, Text: text, Wrap: wrap, Fill: "black"})
}

func (c *Canvas) DrawLine(from, to geometry.Point, color string, width float64) ShapeID {
	return c.add(Item{Kind: KindLine, From: from, To: to, Fill: color, Width: width})
}

// Move shifts an item by (dx, dy). Unknown IDs are ignored.
func (c *Canvas) Move(id ShapeID, dx, dy float64) {
	it, ok := c.items[id]
	if !ok {
		return
	}
	d := geometry.Vec{DX: dx, DY: dy}
	it.Box = geometry.Rect{Min: it.Box.Min.Add(d), Max: it.Box.Max.Add(d)}
	it.At = it.At.Add(d)
	it.From = it.From.Add(d)
	it.To = it.To.Add(d)
}

// Delete removes an item. Unknown IDs are ignored.
func (c *Canvas) Delete(id ShapeID) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Canvas) SetFill(id ShapeID, fill string) {
	if it, ok := c.items[id]; ok {
		it.Fill = fill
	}
}

func (c *Canvas) SetOutline(id ShapeID, outline string, width float64) {
	if it, ok := c.items[id]; ok {
		it.Outline = outline
		it.Width = width
	}
}

func (c *Canvas) SetText(id ShapeID, text string) {
	if it, ok := c.items[id]; ok {
		it.Text = text
	}
}

func (c *Canvas) Viewport() geometry.Rect {
	return geometry.Rect{Min: c.origin, Max: c.origin.Add(c.size)}
}

func (c *Canvas) ScrollTo(origin geometry.Point) {
	c.origin = origin
}

// Resize changes the viewport size, keeping the origin.
func (c *Canvas) Resize(width, height float64) {
	c.size = geometry.Vec{DX: width, DY: height}
}

// Clear removes every item and resets the view.
func (c *Canvas) Clear() {
	c.items = make(map[ShapeID]*Item)
	c.order = nil
	c.origin = geometry.Point{}
}

// Item returns a copy of the item with the given ID.
func (c *Canvas) Item(id ShapeID) (Item, bool) {
	it, ok := c.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Items returns copies of all items in paint order.
func (c *Canvas) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

func (c *Canvas) Len() int {
	return len(c.order)
}

// Bounds returns the smallest rectangle covering every item, or the
// viewport when the canvas is empty.
func (c *Canvas) Bounds() geometry.Rect {
	if len(c.order) == 0 {
		return c.Viewport()
	}
	var r geometry.Rect
	for i, id := range c.order {
		b := c.items[id].Bounds()
		if i == 0 {
			r = b
			continue
		}
		r.Min.X = min(r.Min.X, b.Min.X)
		r.Min.Y = min(r.Min.Y, b.Min.Y)
		r.Max.X = max(r.Max.X, b.Max.X)
		r.Max.Y = max(r.Max.Y, b.Max.Y)
	}
	return r
}
