package cli

import (
	"fmt"
	"strconv"

	"mindnoscape/canvas-app/internal/session"
)

func parsePoint(args []string, usage string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("usage: %s", usage)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x coordinate %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y coordinate %q", args[1])
	}
	return x, y, nil
}

// PointerClick handles 'pointer click x y'.
func (c *CLI) PointerClick(args []string) error {
	x, y, err := parsePoint(args, "pointer click <x> <y>")
	if err != nil {
		return err
	}
	if n := c.Session.Click(x, y); n != nil {
		c.UI.Info(fmt.Sprintf("Grabbed [%d] %s", n.ID, n.Text))
	} else {
		c.UI.Info("Nothing here; selection cleared.")
	}
	return nil
}

// PointerDrag handles 'pointer drag x y'.
func (c *CLI) PointerDrag(args []string) error {
	x, y, err := parsePoint(args, "pointer drag <x> <y>")
	if err != nil {
		return err
	}
	if !c.Session.Dragging() {
		c.UI.Info("No node is grabbed.")
		return nil
	}
	c.Session.Drag(x, y)
	return nil
}

// PointerRelease handles 'pointer release'.
func (c *CLI) PointerRelease(args []string) error {
	moved, err := c.Session.Release()
	if err != nil {
		return err
	}
	if moved {
		n := c.Session.Selected()
		c.UI.Success(fmt.Sprintf("Moved [%d] to (%g, %g).", n.ID, n.X, n.Y))
	}
	return nil
}

// PointerDoubleClick handles 'pointer dclick x y [text]'. On a node it edits
// the text; elsewhere it adds a child to the selected node.
func (c *CLI) PointerDoubleClick(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pointer dclick <x> <y> [text]")
	}
	x, y, err := parsePoint(args[:2], "pointer dclick <x> <y> [text]")
	if err != nil {
		return err
	}
	switch c.Session.DoubleClick(x, y) {
	case session.IntentEditText:
		return c.NodeEdit(args[2:])
	case session.IntentAddChild:
		if c.Session.Selected() == nil {
			return session.ErrNoSelection
		}
		return c.NodeAdd(args[2:])
	}
	return nil
}

// ExecutePointerCommand routes the pointer command to the appropriate handler
func (c *CLI) ExecutePointerCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: pointer <click|drag|release|dclick> ...")
	}

	operation := args[0]
	switch operation {
	case "click":
		return c.PointerClick(args[1:])
	case "drag":
		return c.PointerDrag(args[1:])
	case "release":
		return c.PointerRelease(args[1:])
	case "dclick":
		return c.PointerDoubleClick(args[1:])
	default:
		return fmt.Errorf("unknown pointer operation: %s", operation)
	}
}
