package ui

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer prints lines marked up with {{name}} color tags.
type Visualizer struct {
	writer   io.Writer
	useColor bool
}

func NewVisualizer(w io.Writer, useColor bool) *Visualizer {
	return &Visualizer{
		writer:   w,
		useColor: useColor,
	}
}

func (v *Visualizer) Print(message string) {
	fmt.Fprint(v.writer, message)
}

func (v *Visualizer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(v.writer, format, args...)
}

func (v *Visualizer) Println(message string) {
	fmt.Fprintln(v.writer, message)
}

func (v *Visualizer) PrintColored(message string, color Color) {
	if v.useColor && color != ColorDefault {
		fmt.Fprintf(v.writer, "%s%s%s", color, message, ColorDefault)
	} else {
		fmt.Fprint(v.writer, message)
	}
}

// PrintMultiColoredLine prints line, switching color at every {{tag}} found
// in colorMap. Unknown tags switch back to the default color.
func (v *Visualizer) PrintMultiColoredLine(line string, colorMap map[string]Color) {
	color := ColorDefault
	for len(line) > 0 {
		start := strings.Index(line, "{{")
		if start == -1 {
			v.PrintColored(line, color)
			break
		}
		end := strings.Index(line[start:], "}}")
		if end == -1 {
			v.PrintColored(line, color)
			break
		}
		end += start

		if start > 0 {
			v.PrintColored(line[:start], color)
		}
		next, ok := colorMap[line[start:end+2]]
		if !ok {
			next = ColorDefault
		}
		color = next
		line = line[end+2:]
	}
	v.Println("")
}
