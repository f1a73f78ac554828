package ui

import (
	"fmt"
	"io"

	"mindnoscape/canvas-app/internal/tree"
)

type NodeUI struct {
	visualizer *Visualizer
}

func NewNodeUI(w io.Writer, useColor bool) *NodeUI {
	return &NodeUI{
		visualizer: NewVisualizer(w, useColor),
	}
}

// NodeInfo displays information about a single node
func (nui *NodeUI) NodeInfo(node *tree.Node) {
	nui.visualizer.Printf("Node ID: %d\n", node.ID)
	nui.visualizer.Printf("Text: %s\n", node.Text)
	nui.visualizer.Printf("Position: (%g, %g)\n", node.X, node.Y)
	nui.visualizer.Print("Color: ")
	nui.visualizer.PrintColored("●", ColorFor(node.Color))
	nui.visualizer.Printf(" %s\n", node.Color)
	if p := node.Parent(); p != nil {
		nui.visualizer.Printf("Parent: %s [%d]\n", p.Text, p.ID)
	} else {
		nui.visualizer.Println("Parent: none (root)")
	}
	nui.visualizer.Printf("Children: %d\n", len(node.Children()))
}

// NodeFind displays the results of a node search
func (nui *NodeUI) NodeFind(matches []*tree.Node, showID bool) {
	if len(matches) == 0 {
		nui.visualizer.Println("No matches found.")
		return
	}

	nui.visualizer.Printf("Found %d matches:\n", len(matches))
	for _, node := range matches {
		nui.displayNodeLine(node, showID)
	}
}

func (nui *NodeUI) displayNodeLine(node *tree.Node, showID bool) {
	line := fmt.Sprintf("{{yellow}}(%g, %g){{default}} %s", node.X, node.Y, node.Text)
	if showID {
		line += fmt.Sprintf(" {{orange}}[%d]{{default}}", node.ID)
	}
	nui.visualizer.PrintMultiColoredLine(line, nui.getColorMap())
}

func (nui *NodeUI) getColorMap() map[string]Color {
	return map[string]Color{
		"{{yellow}}":  ColorYellow,
		"{{orange}}":  ColorOrange,
		"{{default}}": ColorDefault,
	}
}
