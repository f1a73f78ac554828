package ui

import (
	"fmt"
	"io"
	"strings"

	"mindnoscape/canvas-app/internal/storage"
	"mindnoscape/canvas-app/internal/tree"
)

// DocumentUI prints whole-document views: the node tree, recent files and
// the document library.
type DocumentUI struct {
	visualizer *Visualizer
}

func NewDocumentUI(w io.Writer, useColor bool) *DocumentUI {
	return &DocumentUI{
		visualizer: NewVisualizer(w, useColor),
	}
}

// TreeView prints the tree below start (the root when nil) with box drawing
// connectors. The selected node is marked with an arrow.
func (dui *DocumentUI) TreeView(t *tree.Tree, start *tree.Node, selected tree.NodeID, showID bool) {
	if start == nil {
		start = t.Root()
	}
	colors := dui.getColorMap()

	var build func(n *tree.Node, prefix string, isLast, top bool)
	build = func(n *tree.Node, prefix string, isLast, top bool) {
		var line strings.Builder
		line.WriteString(prefix)
		childPrefix := prefix
		if !top {
			if isLast {
				line.WriteString("{{brown}}└── {{default}}")
				childPrefix += "    "
			} else {
				line.WriteString("{{brown}}├── {{default}}")
				childPrefix += "{{brown}}│   {{default}}"
			}
		}

		colors["{{node}}"] = ColorFor(n.Color)
		line.WriteString("{{node}}●{{default}} ")
		line.WriteString(n.Text)
		if showID {
			line.WriteString(fmt.Sprintf(" {{orange}}[%d]{{default}}", n.ID))
		}
		if n.ID == selected {
			line.WriteString(" {{yellow}}<{{default}}")
		}
		dui.visualizer.PrintMultiColoredLine(line.String(), colors)

		children := n.Children()
		for i, c := range children {
			build(c, childPrefix, i == len(children)-1, false)
		}
	}
	build(start, "", true, true)
}

// RecentList prints the recent files, numbered from 1.
func (dui *DocumentUI) RecentList(paths []string, current string) {
	if len(paths) == 0 {
		dui.visualizer.Println("No recent files")
		return
	}
	dui.visualizer.Println("Recent files:")
	for i, p := range paths {
		line := fmt.Sprintf("{{yellow}}%d{{default}} %s", i+1, p)
		if p == current {
			line += " {{green}}(open){{default}}"
		}
		dui.visualizer.PrintMultiColoredLine(line, dui.getColorMap())
	}
}

// LibraryList prints the documents stored in the library.
func (dui *DocumentUI) LibraryList(docs []storage.DocumentInfo, current string) {
	if len(docs) == 0 {
		dui.visualizer.Println("The library is empty")
		return
	}
	dui.visualizer.Println("Library documents:")
	for _, d := range docs {
		line := fmt.Sprintf("%s {{gray}}%d nodes, %d bytes, %s, %s{{default}}",
			d.Name, d.Nodes, d.Size, d.UpdatedAt.Format("2006-01-02 15:04"), shortDigest(d.Digest))
		if d.Name == current {
			line += " {{green}}(open){{default}}"
		}
		dui.visualizer.PrintMultiColoredLine(line, dui.getColorMap())
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func (dui *DocumentUI) getColorMap() map[string]Color {
	return map[string]Color{
		"{{yellow}}":  ColorYellow,
		"{{orange}}":  ColorOrange,
		"{{brown}}":   ColorBrown,
		"{{green}}":   ColorGreen,
		"{{gray}}":    ColorGray,
		"{{default}}": ColorDefault,
	}
}
