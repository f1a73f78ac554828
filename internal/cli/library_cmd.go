package cli

import (
	"fmt"
)

// LibraryStore handles 'library store <name>'.
func (c *CLI) LibraryStore(args []string) error {
	name, err := c.argOrPrompt(args, "Library name: ", "library store <name>")
	if err != nil {
		return err
	}
	existed, err := c.Session.LibraryHas(name)
	if err != nil {
		return err
	}
	info, err := c.Session.LibraryStore(name)
	if err != nil {
		return err
	}
	verb := "Stored"
	if existed {
		verb = "Replaced"
	}
	c.UI.Success(fmt.Sprintf("%s '%s' (%d nodes).", verb, info.Name, info.Nodes))
	return nil
}

// LibraryOpen handles 'library open <name>'.
func (c *CLI) LibraryOpen(args []string) error {
	name, err := c.argOrPrompt(args, "Library name: ", "library open <name>")
	if err != nil {
		return err
	}
	if err := c.Session.LibraryOpen(name); err != nil {
		return err
	}
	c.followCurrentFile()
	c.UI.Success(fmt.Sprintf("Opened '%s' (%d nodes).", c.Session.LibraryName(), c.Session.Tree().Len()))
	return nil
}

// LibraryList handles 'library list'.
func (c *CLI) LibraryList(args []string) error {
	docs, err := c.Session.LibraryList()
	if err != nil {
		return err
	}
	c.DocumentUI.LibraryList(docs, c.Session.LibraryName())
	return nil
}

// LibraryDelete handles 'library delete <name>'.
func (c *CLI) LibraryDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: library delete <name>")
	}
	if err := c.Session.LibraryDelete(args[0]); err != nil {
		return err
	}
	c.UI.Success(fmt.Sprintf("Deleted '%s' from the library.", args[0]))
	return nil
}

// ExecuteLibraryCommand routes the library command to the appropriate handler
func (c *CLI) ExecuteLibraryCommand(args []string) error {
	if len(args) == 0 {
		return c.LibraryList(args)
	}

	operation := args[0]
	switch operation {
	case "store":
		return c.LibraryStore(args[1:])
	case "open":
		return c.LibraryOpen(args[1:])
	case "list":
		return c.LibraryList(args[1:])
	case "delete":
		return c.LibraryDelete(args[1:])
	default:
		return fmt.Errorf("unknown library operation: %s", operation)
	}
}
