// Package svgexport writes a render.Canvas as an SVG document.
package svgexport

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"mindnoscape/canvas-app/internal/palette"
	"mindnoscape/canvas-app/internal/render"
)

var (
	black    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	fallback = color.RGBA{0xad, 0xd8, 0xe6, 0xff}
)

// Padding is the blank border kept around the drawing.
const Padding = 20

// Write renders every item of c. The document is sized to the bounds of the
// drawing so nodes outside the viewport are kept.
func Write(w io.Writer, c *render.Canvas) error {
	bounds := c.Bounds()
	minX := int(math.Floor(bounds.Min.X)) - Padding
	minY := int(math.Floor(bounds.Min.Y)) - Padding
	width := int(math.Ceil(bounds.Max.X)) + Padding - minX
	height := int(math.Ceil(bounds.Max.Y)) + Padding - minY

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(width, height, minX, minY, width, height)
	canvas.Rect(minX, minY, width, height, "fill:#ffffff")

	for _, it := range c.Items() {
		switch it.Kind {
		case render.KindEllipse:
			center := it.Box.Center()
			canvas.Ellipse(round(center.X), round(center.Y), round(it.Box.Width()/2), round(it.Box.Height()/2),
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", css(it.Fill, fallback), css(it.Outline, black), it.Width))
		case render.KindLine:
			canvas.Line(round(it.From.X), round(it.From.Y), round(it.To.X), round(it.To.Y),
				fmt.Sprintf("stroke:%s;stroke-width:%g", css(it.Fill, black), it.Width))
		case render.KindText:
			canvas.Text(round(it.At.X), round(it.At.Y), it.Text,
				fmt.Sprintf("fill:%s;font-size:%gpx;font-family:sans-serif;text-anchor:middle;dominant-baseline:middle",
					css(it.Fill, black), render.FontSize))
		}
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

func css(name string, fallback color.RGBA) string {
	return palette.Hex(palette.MustParse(name, fallback))
}

func round(v float64) int {
	return int(math.Round(v))
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
