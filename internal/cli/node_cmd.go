package cli

import (
	"fmt"
	"strconv"
	"strings"

	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/tree"
)

// hasFlag removes every occurrence of the given flags from args and reports
// whether one was present.
func hasFlag(args []string, flags ...string) ([]string, bool) {
	var rest []string
	found := false
	for _, a := range args {
		matched := false
		for _, f := range flags {
			if a == f {
				matched = true
				break
			}
		}
		if matched {
			found = true
		} else {
			rest = append(rest, a)
		}
	}
	return rest, found
}

// NodeInfo shows the selected node.
func (c *CLI) NodeInfo(args []string) error {
	n := c.Session.Selected()
	if n == nil {
		return session.ErrNoSelection
	}
	c.NodeUI.NodeInfo(n)
	return nil
}

// NodeAdd handles 'node add', adding a child to the selected node.
func (c *CLI) NodeAdd(args []string) error {
	if c.Session.Selected() == nil {
		return session.ErrNoSelection
	}
	label, err := c.argOrPrompt(args, "Enter node text: ", "node add <text>")
	if err != nil {
		return err
	}
	n, err := c.Session.AddChild(label)
	if err != nil {
		return err
	}
	if n == nil {
		c.UI.Info("Cancelled.")
		return nil
	}
	c.UI.Success(fmt.Sprintf("Node [%d] added at (%g, %g).", n.ID, n.X, n.Y))
	return nil
}

// NodeEdit handles 'node edit', replacing the text of the selected node.
func (c *CLI) NodeEdit(args []string) error {
	if c.Session.Selected() == nil {
		return session.ErrNoSelection
	}
	text, err := c.argOrPrompt(args, "Enter new text: ", "node edit <text>")
	if err != nil {
		return err
	}
	if text == "" {
		c.UI.Info("Cancelled.")
		return nil
	}
	if err := c.Session.EditText(text); err != nil {
		return err
	}
	c.UI.Success("Node updated.")
	return nil
}

// NodeColor handles 'node color'.
func (c *CLI) NodeColor(args []string) error {
	if c.Session.Selected() == nil {
		return session.ErrNoSelection
	}
	color, err := c.argOrPrompt(args, "Enter color name or hex: ", "node color <color>")
	if err != nil {
		return err
	}
	if color == "" {
		c.UI.Info("Cancelled.")
		return nil
	}
	if err := c.Session.SetColor(color); err != nil {
		return err
	}
	c.UI.Success("Node color set to " + color + ".")
	return nil
}

// NodeDelete handles 'node delete', removing the selected node and its subtree.
func (c *CLI) NodeDelete(args []string) error {
	ids, err := c.Session.DeleteSelected()
	if err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Deleted %d node(s).", len(ids)))
	return nil
}

// NodeSelect handles 'node select <id>'.
func (c *CLI) NodeSelect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: node select <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid node id %q", tree.ErrInvalidOperation, args[0])
	}
	n, err := c.Session.Select(tree.NodeID(id))
	if err != nil {
		return fmt.Errorf("%w: node %d does not exist", tree.ErrInvalidOperation, id)
	}
	c.UI.Info(fmt.Sprintf("Selected [%d] %s", n.ID, n.Text))
	return nil
}

// NodeDeselect handles 'node deselect'.
func (c *CLI) NodeDeselect(args []string) error {
	c.Session.ClearSelection()
	return nil
}

// NodeFind handles 'node find', outlining the matching nodes.
func (c *CLI) NodeFind(args []string) error {
	args, showID := hasFlag(args, "--id", "-i")
	if len(args) == 0 {
		c.Session.ClearHighlights()
		return nil
	}
	query := strings.Join(args, " ")
	matches := c.Session.Search(query)
	c.NodeUI.NodeFind(matches, showID)
	return nil
}

// NodeCenter handles 'node center'.
func (c *CLI) NodeCenter(args []string) error {
	if err := c.Session.CenterOnSelection(); err != nil {
		return err
	}
	vp := c.Session.Canvas().Viewport()
	c.UI.Info(fmt.Sprintf("View origin at (%g, %g).", vp.Min.X, vp.Min.Y))
	return nil
}

// NodeCopy handles 'node copy', putting the selected subtree on the clipboard.
func (c *CLI) NodeCopy(args []string) error {
	text, err := c.Session.CopySelection()
	if err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Copied %d line(s) to the clipboard.", strings.Count(text, "\n")))
	return nil
}

// NodeUndo handles 'node undo'.
func (c *CLI) NodeUndo(args []string) error {
	ok, err := c.Session.Undo()
	if err != nil {
		return err
	}
	if !ok {
		c.UI.Info("Nothing to undo.")
		return nil
	}
	c.UI.Success("Undone.")
	return nil
}

// NodeRedo handles 'node redo'.
func (c *CLI) NodeRedo(args []string) error {
	ok, err := c.Session.Redo()
	if err != nil {
		return err
	}
	if !ok {
		c.UI.Info("Nothing to redo.")
		return nil
	}
	c.UI.Success("Redone.")
	return nil
}

// ExecuteNodeCommand routes the node command to the appropriate handler
func (c *CLI) ExecuteNodeCommand(args []string) error {
	// If no arguments, show node info
	if len(args) == 0 {
		return c.NodeInfo(args)
	}

	operation := args[0]
	switch operation {
	case "info":
		return c.NodeInfo(args[1:])
	case "add":
		return c.NodeAdd(args[1:])
	case "edit":
		return c.NodeEdit(args[1:])
	case "color":
		return c.NodeColor(args[1:])
	case "delete":
		return c.NodeDelete(args[1:])
	case "select":
		return c.NodeSelect(args[1:])
	case "deselect":
		return c.NodeDeselect(args[1:])
	case "find":
		return c.NodeFind(args[1:])
	case "center":
		return c.NodeCenter(args[1:])
	case "copy":
		return c.NodeCopy(args[1:])
	case "undo":
		return c.NodeUndo(args[1:])
	case "redo":
		return c.NodeRedo(args[1:])
	default:
		return fmt.Errorf("unknown node operation: %s", operation)
	}
}
