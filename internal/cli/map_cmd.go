package cli

import (
	"errors"
	"fmt"
	"strconv"

	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/tree"
)

// MapInfo shows the state of the open document.
func (c *CLI) MapInfo(args []string) error {
	s := c.Session
	file := s.CurrentFile()
	if file == "" {
		file = "(none)"
	}
	c.UI.Printf("File: %s\n", file)
	if name := s.LibraryName(); name != "" {
		c.UI.Printf("Library entry: %s\n", name)
	}
	c.UI.Printf("Modified: %t\n", s.Modified())
	c.UI.Printf("Nodes: %d, depth %d\n", s.Tree().Len(), s.Tree().Depth())
	undo, redo := s.History().Len()
	c.UI.Printf("History: %d undo, %d redo\n", undo-1, redo)
	return nil
}

// MapNew handles 'map new'.
func (c *CLI) MapNew(args []string) error {
	if err := c.Session.New(); err != nil {
		return err
	}
	c.followCurrentFile()
	c.UI.Success("New document created.")
	return nil
}

// MapSave handles 'map save [path]'. Without a path the document is saved to
// its current file, asking for one if it has none.
func (c *CLI) MapSave(args []string) error {
	var err error
	if len(args) > 0 {
		err = c.Session.SaveAs(args[0])
	} else {
		err = c.Session.Save()
		if errors.Is(err, session.ErrNoCurrentFile) {
			var path string
			path, err = c.argOrPrompt(nil, "Save as: ", "map save <path>")
			if err != nil {
				return err
			}
			if path == "" {
				c.UI.Info("Cancelled.")
				return nil
			}
			err = c.Session.SaveAs(path)
		}
	}
	if err != nil {
		return err
	}
	c.followCurrentFile()
	c.UI.Success("Saved to " + c.Session.CurrentFile())
	return nil
}

// MapLoad handles 'map load <path>'.
func (c *CLI) MapLoad(args []string) error {
	path, err := c.argOrPrompt(args, "Open file: ", "map load <path>")
	if err != nil {
		return err
	}
	if path == "" {
		c.UI.Info("Cancelled.")
		return nil
	}
	if err := c.Session.Load(path); err != nil {
		return err
	}
	c.followCurrentFile()
	c.UI.Success(fmt.Sprintf("Loaded %s (%d nodes).", c.Session.CurrentFile(), c.Session.Tree().Len()))
	return nil
}

// MapReload handles 'map reload'.
func (c *CLI) MapReload(args []string) error {
	if err := c.Session.Reload(); err != nil {
		return err
	}
	c.UI.Success("Reloaded " + c.Session.CurrentFile())
	return nil
}

// MapExport handles 'map export <path>'.
func (c *CLI) MapExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: map export <path.svg|path.png|path.json|path.xml|path.yaml>")
	}
	if err := c.Session.Export(args[0]); err != nil {
		return err
	}
	c.UI.Success("Exported to " + args[0])
	return nil
}

// MapView handles 'map view [id] [--id]'.
func (c *CLI) MapView(args []string) error {
	args, showID := hasFlag(args, "--id", "-i")
	t := c.Session.Tree()
	var start *tree.Node
	if len(args) > 0 {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid node id %q", tree.ErrInvalidOperation, args[0])
		}
		if start = t.Node(tree.NodeID(id)); start == nil {
			return fmt.Errorf("%w: node %d does not exist", tree.ErrInvalidOperation, id)
		}
	}
	var selected tree.NodeID
	if n := c.Session.Selected(); n != nil {
		selected = n.ID
	}
	c.DocumentUI.TreeView(t, start, selected, showID)
	return nil
}

// MapRecent handles 'map recent [n]'. Without a number it lists the recent
// files; with one it opens the n-th entry.
func (c *CLI) MapRecent(args []string) error {
	recent := c.Session.Recent()
	if len(args) == 0 {
		c.DocumentUI.RecentList(recent, c.Session.CurrentFile())
		return nil
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > len(recent) {
		return fmt.Errorf("%w: no recent file %q", tree.ErrInvalidOperation, args[0])
	}
	if err := c.Session.LoadRecent(recent[i-1]); err != nil {
		return err
	}
	c.followCurrentFile()
	c.UI.Success("Loaded " + c.Session.CurrentFile())
	return nil
}

// ExecuteMapCommand routes the map command to the appropriate handler
func (c *CLI) ExecuteMapCommand(args []string) error {
	if len(args) == 0 {
		return c.MapInfo(args)
	}

	operation := args[0]
	switch operation {
	case "info":
		return c.MapInfo(args[1:])
	case "new":
		return c.MapNew(args[1:])
	case "save":
		return c.MapSave(args[1:])
	case "load":
		return c.MapLoad(args[1:])
	case "reload":
		return c.MapReload(args[1:])
	case "export":
		return c.MapExport(args[1:])
	case "view":
		return c.MapView(args[1:])
	case "recent":
		return c.MapRecent(args[1:])
	default:
		return fmt.Errorf("unknown map operation: %s", operation)
	}
}
