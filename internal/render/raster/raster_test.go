package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/render"
	"mindnoscape/canvas-app/internal/tree"
)

func drawn(t *testing.T) (*tree.Tree, *render.Canvas) {
	t.Helper()
	tr := tree.New("Central Idea", tree.DefaultOptions())
	child, _ := tr.AddChild(tr.Root(), "Red")
	tr.SetColor(child, "red")
	c := render.NewCanvas(800, 600)
	render.NewRenderer(c).Sync(tr)
	return tr, c
}

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestRenderPaintsNodes(t *testing.T) {
	tr, c := drawn(t)
	img, err := Render(c, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("bounds = %v", b)
	}
	if got := rgb(img.At(5, 5)); got != [3]uint32{255, 255, 255} {
		t.Errorf("background = %v", got)
	}
	// inside the root ellipse, above the label
	if got := rgb(img.At(400, 276)); got != [3]uint32{173, 216, 230} {
		t.Errorf("root fill = %v", got)
	}
	child := tr.Root().Children()[0]
	if got := rgb(img.At(int(child.X), int(child.Y)-24)); got != [3]uint32{255, 0, 0} {
		t.Errorf("child fill = %v", got)
	}
}

func TestRenderRegion(t *testing.T) {
	_, c := drawn(t)
	img, err := Render(c, Options{Region: geometry.NewRect(350, 250, 100, 100)})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
	if got := rgb(img.At(50, 26)); got != [3]uint32{173, 216, 230} {
		t.Errorf("root fill = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	_, c := drawn(t)
	var buf bytes.Buffer
	if err := WritePNG(&buf, c, Options{}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}
