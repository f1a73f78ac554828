// Package raster paints a render.Canvas into an image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/palette"
	"mindnoscape/canvas-app/internal/render"
)

var (
	background = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black      = color.RGBA{0x00, 0x00, 0x00, 0xff}
	fallback   = color.RGBA{0xad, 0xd8, 0xe6, 0xff} // lightblue
)

var (
	fontOnce sync.Once
	fontData *opentype.Font
	fontErr  error
)

// newFace returns the Go Regular face at size points.
func newFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(fontData, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Options controls what part of the canvas is painted.
type Options struct {
	// Region is the canvas area to paint. The zero value paints the viewport.
	Region geometry.Rect
}

// Render paints the canvas items inside the region into a new image.
func Render(c *render.Canvas, opts Options) (image.Image, error) {
	dc, err := draw(c, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG paints the canvas and encodes it as PNG.
func WritePNG(w io.Writer, c *render.Canvas, opts Options) error {
	dc, err := draw(c, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func draw(c *render.Canvas, opts Options) (*gg.Context, error) {
	region := opts.Region
	if region.Width() <= 0 || region.Height() <= 0 {
		region = c.Viewport()
	}

	w := int(math.Ceil(region.Width()))
	h := int(math.Ceil(region.Height()))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}

	face, err := newFace(render.FontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()
	dc.Translate(-region.Min.X, -region.Min.Y)
	dc.SetFontFace(face)

	for _, it := range c.Items() {
		paint(dc, it)
	}
	return dc, nil
}

func paint(dc *gg.Context, it render.Item) {
	switch it.Kind {
	case render.KindEllipse:
		center := it.Box.Center()
		dc.DrawEllipse(center.X, center.Y, it.Box.Width()/2, it.Box.Height()/2)
		dc.SetColor(palette.MustParse(it.Fill, fallback))
		dc.FillPreserve()
		dc.SetColor(palette.MustParse(it.Outline, black))
		dc.SetLineWidth(it.Width)
		dc.Stroke()
	case render.KindLine:
		dc.DrawLine(it.From.X, it.From.Y, it.To.X, it.To.Y)
		dc.SetColor(palette.MustParse(it.Fill, black))
		dc.SetLineWidth(it.Width)
		dc.Stroke()
	case render.KindText:
		dc.SetColor(palette.MustParse(it.Fill, black))
		if it.Wrap > 0 {
			dc.DrawStringWrapped(it.Text, it.At.X, it.At.Y, 0.5, 0.5, it.Wrap, 1.2, gg.AlignCenter)
		} else {
			dc.DrawStringAnchored(it.Text, it.At.X, it.At.Y, 0.5, 0.5)
		}
	}
}
