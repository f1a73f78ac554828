package svgexport

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"mindnoscape/canvas-app/internal/render"
	"mindnoscape/canvas-app/internal/tree"
)

func TestWrite(t *testing.T) {
	tr := tree.New("Central Idea", tree.DefaultOptions())
	a, _ := tr.AddChild(tr.Root(), "A & B")
	tr.SetColor(a, "#ff0000")
	tr.AddChild(tr.Root(), "C")

	c := render.NewCanvas(800, 600)
	render.NewRenderer(c).Sync(tr)

	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if n := strings.Count(out, "<ellipse"); n != 3 {
		t.Errorf("ellipses = %d, want 3", n)
	}
	if n := strings.Count(out, "<line"); n != 2 {
		t.Errorf("lines = %d, want 2", n)
	}
	for _, want := range []string{"A &amp; B", "fill:#add8e6", "fill:#ff0000", "Central Idea"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}

	// The document must be well formed
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid xml: %v\n%s", err, out)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportsErrors(t *testing.T) {
	c := render.NewCanvas(800, 600)
	if err := Write(failingWriter{}, c); err == nil {
		t.Error("expected write error")
	}
}
