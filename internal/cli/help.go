package cli

import (
	"fmt"

	"github.com/chzyer/readline"
)

// CommandHelp represents the structure of help information for a specific command.
type CommandHelp struct {
	Scope     string
	Operation string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Options   []string
	Examples  []string
}

// HandleHelp processes the help command and displays appropriate help information.
// It can show general help, scope-specific help, or operation-specific help.
func (c *CLI) HandleHelp(args []string) error {
	switch len(args) {
	case 0:
		return c.showGeneralHelp()
	case 1:
		return c.showScopeHelp(args[0])
	case 2:
		return c.showOperationHelp(args[0], args[1])
	default:
		return fmt.Errorf("invalid help command. Use 'help [scope] [operation]'")
	}
}

// showGeneralHelp displays an overview of all available commands grouped by scope.
func (c *CLI) showGeneralHelp() error {
	c.UI.Println("Command syntax: <scope> [operation] [arguments] [options]")
	c.UI.Println("\nAvailable commands:")

	currentScope := ""
	for _, cmd := range commandHelps {
		if cmd.Scope != currentScope {
			c.UI.Printf("\n%s:\n", cmd.Scope)
			currentScope = cmd.Scope
		}
		c.UI.Printf("  %-15s %s\n", cmd.Operation, cmd.ShortDesc)
	}
	return nil
}

// showScopeHelp displays help information for all commands within a specific scope.
func (c *CLI) showScopeHelp(scope string) error {
	found := false
	for _, cmd := range commandHelps {
		if cmd.Scope == scope {
			if !found {
				c.UI.Printf("Commands for %s:\n\n", scope)
				found = true
			}
			c.UI.Printf("%-15s %s\n", cmd.Operation, cmd.ShortDesc)
		}
	}
	if !found {
		return fmt.Errorf("no help found for %s", scope)
	}
	return nil
}

// showOperationHelp displays detailed help information for a specific operation within a scope.
func (c *CLI) showOperationHelp(scope, operation string) error {
	for _, cmd := range commandHelps {
		if cmd.Scope == scope && cmd.Operation == operation {
			c.UI.Printf("Command: %s %s\n", scope, operation)
			c.UI.Printf("Description: %s\n", cmd.LongDesc)
			c.UI.Printf("Syntax: %s\n", cmd.Syntax)
			if len(cmd.Arguments) > 0 {
				c.UI.Println("Arguments:")
				for _, arg := range cmd.Arguments {
					c.UI.Printf("  %s\n", arg)
				}
			}
			if len(cmd.Options) > 0 {
				c.UI.Println("Options:")
				for _, opt := range cmd.Options {
					c.UI.Printf("  %s\n", opt)
				}
			}
			if len(cmd.Examples) > 0 {
				c.UI.Println("Examples:")
				for _, ex := range cmd.Examples {
					c.UI.Printf("  %s\n", ex)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("no help found for %s %s", scope, operation)
}

// Completer builds tab completion for every scope and operation in the help
// table. Library operations also complete stored document names.
func (c *CLI) Completer() *readline.PrefixCompleter {
	libraryNames := readline.PcItemDynamic(func(string) []string {
		docs, err := c.Session.LibraryList()
		if err != nil {
			return nil
		}
		names := make([]string, len(docs))
		for i, d := range docs {
			names[i] = d.Name
		}
		return names
	})

	var scopes []readline.PrefixCompleterInterface
	var ops []readline.PrefixCompleterInterface
	currentScope := ""
	flush := func() {
		if currentScope != "" {
			scopes = append(scopes, readline.PcItem(currentScope, ops...))
		}
		ops = nil
	}
	for _, cmd := range commandHelps {
		if cmd.Scope != currentScope {
			flush()
			currentScope = cmd.Scope
		}
		if cmd.Scope == "library" && (cmd.Operation == "open" || cmd.Operation == "delete") {
			ops = append(ops, readline.PcItem(cmd.Operation, libraryNames))
		} else {
			ops = append(ops, readline.PcItem(cmd.Operation))
		}
	}
	flush()
	scopes = append(scopes, readline.PcItem("help"), readline.PcItem("undo"), readline.PcItem("redo"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(scopes...)
}

// commandHelps is a slice of CommandHelp structs containing help information for all commands.
var commandHelps = []CommandHelp{
	{
		Scope:     "node",
		Operation: "info",
		ShortDesc: "Show the selected node",
		LongDesc:  "Displays the text, position, color, parent and child count of the selected node. This is also what 'node' alone does.",
		Syntax:    "node info",
		Examples:  []string{"node", "node info"},
	},
	{
		Scope:     "node",
		Operation: "add",
		ShortDesc: "Add a child to the selected node",
		LongDesc:  "Adds a new node below the selected node. The child is placed around its parent and kept inside the canvas. Without text you are asked for it; an empty answer cancels.",
		Syntax:    "node add [text]",
		Arguments: []string{"text: The label of the new node. Use quotes for text with leading or repeated spaces"},
		Examples:  []string{"node add Budget", "node add \"Sub Topic\""},
	},
	{
		Scope:     "node",
		Operation: "edit",
		ShortDesc: "Change the text of the selected node",
		LongDesc:  "Replaces the label of the selected node. Without text you are asked for it; an empty answer cancels.",
		Syntax:    "node edit [text]",
		Arguments: []string{"text: The new label"},
		Examples:  []string{"node edit \"Main Goal\""},
	},
	{
		Scope:     "node",
		Operation: "color",
		ShortDesc: "Change the color of the selected node",
		LongDesc:  "Sets the fill color of the selected node to a color name or a hex value.",
		Syntax:    "node color [color]",
		Arguments: []string{"color: A name such as lightblue, or #rgb / #rrggbb"},
		Examples:  []string{"node color orange", "node color #ffcc00"},
	},
	{
		Scope:     "node",
		Operation: "delete",
		ShortDesc: "Delete the selected node",
		LongDesc:  "Deletes the selected node together with its whole subtree. The root cannot be deleted.",
		Syntax:    "node delete",
		Examples:  []string{"node delete"},
	},
	{
		Scope:     "node",
		Operation: "select",
		ShortDesc: "Select a node by id",
		LongDesc:  "Makes the node with the given id the selection. Ids are shown by 'map view --id'.",
		Syntax:    "node select <id>",
		Arguments: []string{"id: The node id"},
		Examples:  []string{"node select 3"},
	},
	{
		Scope:     "node",
		Operation: "deselect",
		ShortDesc: "Clear the selection",
		LongDesc:  "Deselects the selected node.",
		Syntax:    "node deselect",
		Examples:  []string{"node deselect"},
	},
	{
		Scope:     "node",
		Operation: "find",
		ShortDesc: "Find and highlight nodes",
		LongDesc:  "Outlines every node whose text contains the query, ignoring case, and centers the view on the first match. Without a query the outlines are removed.",
		Syntax:    "node find [query] [--id]",
		Arguments: []string{"query: The text to look for"},
		Options:   []string{"--id, -i: Show node ids in the results"},
		Examples:  []string{"node find idea", "node find \"sub topic\" --id", "node find"},
	},
	{
		Scope:     "node",
		Operation: "center",
		ShortDesc: "Center the view on the selected node",
		LongDesc:  "Scrolls the canvas view so the selected node is in its middle.",
		Syntax:    "node center",
		Examples:  []string{"node center"},
	},
	{
		Scope:     "node",
		Operation: "copy",
		ShortDesc: "Copy the selected subtree as text",
		LongDesc:  "Puts an indented outline of the selected node and its descendants on the clipboard.",
		Syntax:    "node copy",
		Examples:  []string{"node copy"},
	},
	{
		Scope:     "node",
		Operation: "undo",
		ShortDesc: "Undo the last change",
		LongDesc:  "Restores the document as it was before the last change. The selection is cleared.",
		Syntax:    "node undo",
		Examples:  []string{"node undo", "undo"},
	},
	{
		Scope:     "node",
		Operation: "redo",
		ShortDesc: "Redo the last undone change",
		LongDesc:  "Re-applies the change that was undone last.",
		Syntax:    "node redo",
		Examples:  []string{"node redo", "redo"},
	},
	{
		Scope:     "pointer",
		Operation: "click",
		ShortDesc: "Press the pointer at a canvas point",
		LongDesc:  "Selects the node under the point and grabs it for dragging. On empty canvas the selection is cleared.",
		Syntax:    "pointer click <x> <y>",
		Arguments: []string{"x, y: Canvas coordinates"},
		Examples:  []string{"pointer click 400 300"},
	},
	{
		Scope:     "pointer",
		Operation: "drag",
		ShortDesc: "Move the pointer while pressed",
		LongDesc:  "Moves the grabbed node by the pointer movement. Its connectors follow.",
		Syntax:    "pointer drag <x> <y>",
		Arguments: []string{"x, y: Canvas coordinates"},
		Examples:  []string{"pointer drag 450 320"},
	},
	{
		Scope:     "pointer",
		Operation: "release",
		ShortDesc: "Release the pointer",
		LongDesc:  "Ends a drag. A node that moved is recorded as one undoable change.",
		Syntax:    "pointer release",
		Examples:  []string{"pointer release"},
	},
	{
		Scope:     "pointer",
		Operation: "dclick",
		ShortDesc: "Double click at a canvas point",
		LongDesc:  "On a node, edits its text. On empty canvas, adds a child to the selected node.",
		Syntax:    "pointer dclick <x> <y> [text]",
		Arguments: []string{"x, y: Canvas coordinates", "text: (Optional) The text to use instead of asking"},
		Examples:  []string{"pointer dclick 400 300 \"New title\"", "pointer dclick 100 100 Child"},
	},
	{
		Scope:     "map",
		Operation: "info",
		ShortDesc: "Show the document state",
		LongDesc:  "Displays the current file, library entry, modification state, node count and history depth.",
		Syntax:    "map info",
		Examples:  []string{"map", "map info"},
	},
	{
		Scope:     "map",
		Operation: "new",
		ShortDesc: "Start a new document",
		LongDesc:  "Replaces the document with a single root node. This can be undone.",
		Syntax:    "map new",
		Examples:  []string{"map new"},
	},
	{
		Scope:     "map",
		Operation: "save",
		ShortDesc: "Save the document",
		LongDesc:  "Saves the document to the given file, or to its current file. The format follows the extension: .json, .xml, .yaml or .yml.",
		Syntax:    "map save [path]",
		Arguments: []string{"path: (Optional) The file to save to"},
		Examples:  []string{"map save", "map save ideas.json", "map save ideas.yaml"},
	},
	{
		Scope:     "map",
		Operation: "load",
		ShortDesc: "Open a document file",
		LongDesc:  "Replaces the document with the one stored in the file. A file that cannot be read leaves the current document open.",
		Syntax:    "map load <path>",
		Arguments: []string{"path: The file to open"},
		Examples:  []string{"map load ideas.json"},
	},
	{
		Scope:     "map",
		Operation: "reload",
		ShortDesc: "Reload the current file",
		LongDesc:  "Reads the current file again, discarding unsaved changes.",
		Syntax:    "map reload",
		Examples:  []string{"map reload"},
	},
	{
		Scope:     "map",
		Operation: "export",
		ShortDesc: "Export a picture or a copy",
		LongDesc:  "Writes the drawing as SVG or PNG, or a copy of the document as JSON, XML or YAML. The current file does not change.",
		Syntax:    "map export <path>",
		Arguments: []string{"path: Target file; the extension selects the format"},
		Examples:  []string{"map export ideas.svg", "map export ideas.png"},
	},
	{
		Scope:     "map",
		Operation: "view",
		ShortDesc: "Show the document tree",
		LongDesc:  "Prints the node tree, or the subtree below a node. The selected node is marked with '<'.",
		Syntax:    "map view [id] [--id]",
		Arguments: []string{"id: (Optional) The node to start from"},
		Options:   []string{"--id, -i: Show node ids"},
		Examples:  []string{"map view", "map view --id", "map view 2"},
	},
	{
		Scope:     "map",
		Operation: "recent",
		ShortDesc: "List or open recent files",
		LongDesc:  "Lists the recently used files, or opens the numbered entry. Entries whose file is gone are removed.",
		Syntax:    "map recent [number]",
		Arguments: []string{"number: (Optional) The entry to open"},
		Examples:  []string{"map recent", "map recent 1"},
	},
	{
		Scope:     "library",
		Operation: "store",
		ShortDesc: "Store the document in the library",
		LongDesc:  "Saves the document in the local library database under a name, replacing an entry with the same name.",
		Syntax:    "library store <name>",
		Arguments: []string{"name: The library entry name"},
		Examples:  []string{"library store roadmap"},
	},
	{
		Scope:     "library",
		Operation: "open",
		ShortDesc: "Open a library document",
		LongDesc:  "Replaces the document with a library entry.",
		Syntax:    "library open <name>",
		Arguments: []string{"name: The library entry name"},
		Examples:  []string{"library open roadmap"},
	},
	{
		Scope:     "library",
		Operation: "list",
		ShortDesc: "List library documents",
		LongDesc:  "Displays the stored documents with their size, node count and last update.",
		Syntax:    "library list",
		Examples:  []string{"library", "library list"},
	},
	{
		Scope:     "library",
		Operation: "delete",
		ShortDesc: "Delete a library document",
		LongDesc:  "Removes an entry from the library. The open document is not affected.",
		Syntax:    "library delete <name>",
		Arguments: []string{"name: The library entry name"},
		Examples:  []string{"library delete roadmap"},
	},
	{
		Scope:     "system",
		Operation: "info",
		ShortDesc: "Show system information",
		LongDesc:  "Displays the configuration file, database, log folder and watched file.",
		Syntax:    "system info",
		Examples:  []string{"system", "system info"},
	},
	{
		Scope:     "system",
		Operation: "log",
		ShortDesc: "Switch info logging",
		LongDesc:  "Turns the info log on or off for this run.",
		Syntax:    "system log <on|off>",
		Examples:  []string{"system log on"},
	},
	{
		Scope:     "system",
		Operation: "exit",
		ShortDesc: "Exit the program",
		LongDesc:  "Exits Mindnoscape. Unsaved changes block the exit unless --force is given.",
		Syntax:    "system exit [--force]",
		Options:   []string{"--force, -f: Exit even with unsaved changes"},
		Examples:  []string{"system exit", "exit --force"},
	},
	{
		Scope:     "system",
		Operation: "quit",
		ShortDesc: "Quit the program",
		LongDesc:  "Equivalent to 'system exit'.",
		Syntax:    "system quit [--force]",
		Examples:  []string{"system quit"},
	},
}
