// Package cli provides the command-line interface of Mindnoscape: a readline
// loop that turns typed commands into session operations.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/tree"
	"mindnoscape/canvas-app/internal/ui"
	"mindnoscape/canvas-app/internal/watch"
)

// errExit is returned by the exit commands. It wraps io.EOF so the main loop
// treats it like the end of input.
var errExit = fmt.Errorf("exit requested: %w", io.EOF)

type CLI struct {
	Session    *session.Session
	RL         *readline.Instance
	UI         *ui.UI
	DocumentUI *ui.DocumentUI
	NodeUI     *ui.NodeUI
	Prompt     string

	watcher *watch.Watcher
	logger  *log.Logger
	ctx     context.Context
}

// NewCLI creates a CLI printing to w. rl may be nil when commands only come
// from scripts; prompts for missing arguments then fail.
func NewCLI(s *session.Session, rl *readline.Instance, w io.Writer, useColor bool, logger *log.Logger) *CLI {
	if logger == nil {
		logger = log.NewDiscard()
	}
	c := &CLI{
		Session:    s,
		RL:         rl,
		UI:         ui.NewUI(w, useColor),
		DocumentUI: ui.NewDocumentUI(w, useColor),
		NodeUI:     ui.NewNodeUI(w, useColor),
		logger:     logger,
		ctx:        context.Background(),
	}
	c.UpdatePrompt()
	return c
}

// SetWatcher makes the CLI follow the current file for changes made by other
// programs.
func (c *CLI) SetWatcher(w *watch.Watcher) {
	c.watcher = w
	c.followCurrentFile()
}

// Run reads and executes one line.
func (c *CLI) Run() error {
	c.PollChanges()
	c.RL.SetPrompt(c.Prompt)

	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	c.logger.LogCommand(c.ctx, line)
	err = c.ExecuteCommand(c.ParseArgs(line))
	c.UpdatePrompt()
	return err
}

// ParseArgs splits input at spaces. Double quotes group words into one argument.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 || quoted {
					args = append(args, currentArg.String())
					currentArg.Reset()
					quoted = false
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 || quoted {
		args = append(args, currentArg.String())
	}

	return args
}

// ExecuteCommand routes a parsed command line to its scope.
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	scope := strings.ToLower(args[0])
	switch scope {
	case "node":
		return c.ExecuteNodeCommand(args[1:])
	case "pointer":
		return c.ExecutePointerCommand(args[1:])
	case "map":
		return c.ExecuteMapCommand(args[1:])
	case "library":
		return c.ExecuteLibraryCommand(args[1:])
	case "system":
		return c.ExecuteSystemCommand(args[1:])
	case "help":
		return c.HandleHelp(args[1:])
	case "undo":
		return c.NodeUndo(args[1:])
	case "redo":
		return c.NodeRedo(args[1:])
	case "exit", "quit":
		return c.SystemExit(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// ExecuteScript runs the commands in a file, one per line. Blank lines and
// lines starting with # are skipped. Execution stops at the first error.
func (c *CLI) ExecuteScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.logger.LogCommand(c.ctx, line)
		if err := c.ExecuteCommand(c.ParseArgs(line)); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	c.UpdatePrompt()
	return nil
}

// Report prints a command error. Rejected operations are warnings; anything
// else is an error and is logged.
func (c *CLI) Report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, tree.ErrInvalidOperation) {
		c.UI.Warning(err.Error())
		return
	}
	c.logger.LogError(c.ctx, err)
	c.UI.Error(err.Error())
}

// UpdatePrompt rebuilds the prompt from the session state.
func (c *CLI) UpdatePrompt() {
	selected := ""
	if n := c.Session.Selected(); n != nil {
		selected = n.Text
	}
	c.Prompt = c.UI.GetPromptString(c.documentName(), selected, c.Session.Modified())
}

func (c *CLI) documentName() string {
	if name := c.Session.LibraryName(); name != "" {
		return name
	}
	if path := c.Session.CurrentFile(); path != "" {
		return shortPath(path)
	}
	return ""
}

func shortPath(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// PollChanges reports a pending change notice from the file watcher. It never
// blocks.
func (c *CLI) PollChanges() {
	if c.watcher == nil {
		return
	}
	select {
	case <-c.watcher.Changes():
	default:
		return
	}
	changed, err := c.Session.ChangedOnDisk()
	if err != nil || !changed {
		return
	}
	c.UI.Warning(fmt.Sprintf("%s was changed by another program. Use 'map reload' to load it.", shortPath(c.Session.CurrentFile())))
}

func (c *CLI) followCurrentFile() {
	if c.watcher == nil {
		return
	}
	path := c.Session.CurrentFile()
	if path == "" {
		c.watcher.Unwatch()
		return
	}
	if path == c.watcher.Path() {
		return
	}
	if err := c.watcher.Watch(path); err != nil {
		c.logger.Warn(c.ctx, "Failed to watch file", log.Fields{"path": path, "error": err})
	}
}

var errNoPrompt = errors.New("missing argument")

// promptForInput asks for a value on the terminal. An empty answer means
// the dialog was cancelled.
func (c *CLI) promptForInput(prompt string) (string, error) {
	if c.RL == nil {
		return "", errNoPrompt
	}
	c.RL.SetPrompt(prompt)
	defer c.RL.SetPrompt(c.Prompt)
	input, err := c.RL.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// argOrPrompt returns the arguments joined by spaces, or asks for the value
// when there are none.
func (c *CLI) argOrPrompt(args []string, prompt, usage string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	v, err := c.promptForInput(prompt)
	if errors.Is(err, errNoPrompt) {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return v, err
}
