package cli

import (
	"fmt"

	"mindnoscape/canvas-app/internal/config"
)

// SystemExit handles the 'system exit' command. Unsaved changes block the
// exit unless --force is given.
func (c *CLI) SystemExit(args []string) error {
	_, force := hasFlag(args, "--force", "-f")
	if c.Session.Modified() && !force {
		c.UI.Warning("The document has unsaved changes. Save it or use 'exit --force'.")
		return nil
	}
	c.UI.Println("Exiting...")
	return errExit
}

// SystemInfo handles the 'system' command
func (c *CLI) SystemInfo(args []string) error {
	c.UI.Println("System Information:")
	c.UI.Printf("Config file: %s\n", config.ConfigPath())

	if cfg := config.ConfigGet(); cfg != nil {
		c.UI.Printf("Database: %s\n", cfg.DatabasePath())
		c.UI.Printf("Log folder: %s\n", cfg.LogFolder)
		c.UI.Printf("Canvas: %gx%g\n", cfg.CanvasWidth, cfg.CanvasHeight)
		c.UI.Printf("File watching: %t\n", cfg.WatchFiles)
	}
	c.UI.Printf("Recent files: %d\n", len(c.Session.Recent()))
	if c.watcher != nil && c.watcher.Path() != "" {
		c.UI.Printf("Watching: %s\n", c.watcher.Path())
	}
	return nil
}

// SystemLog handles 'system log on|off', switching the info log.
func (c *CLI) SystemLog(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: system log <on|off>")
	}
	c.logger.SetInfoEnabled(args[0] == "on")
	c.UI.Info("Info logging " + args[0] + ".")
	return nil
}

// ExecuteSystemCommand routes the system command to the appropriate handler
func (c *CLI) ExecuteSystemCommand(args []string) error {
	if len(args) == 0 {
		return c.SystemInfo(args)
	}

	operation := args[0]
	switch operation {
	case "info":
		return c.SystemInfo(args[1:])
	case "log":
		return c.SystemLog(args[1:])
	case "exit", "quit":
		return c.SystemExit(args[1:])
	default:
		return fmt.Errorf("unknown system operation: %s", operation)
	}
}
