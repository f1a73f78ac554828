package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"mindnoscape/canvas-app/internal/app"
	"mindnoscape/canvas-app/internal/cli"
	"mindnoscape/canvas-app/internal/config"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path of the configuration file")
	flag.Parse()

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run starts the interactive shell. Each script in scripts is executed
// before the first prompt.
func run(configPath string, scripts []string) error {
	a, err := app.Bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := context.Background()

	useColor := a.Config.UseColor && ui.IsTerminal(os.Stdout)
	c := cli.NewCLI(a.Session, nil, os.Stdout, useColor, a.Logger)
	if a.Watcher != nil {
		c.SetWatcher(a.Watcher)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.Prompt,
		HistoryFile:     a.Config.HistoryFile,
		AutoComplete:    c.Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		a.Logger.Error(ctx, "Failed to initialize readline", log.Fields{"error": err})
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()
	c.RL = rl
	a.Logger.Info(ctx, "CLI initialized", nil)

	c.UI.Info("Welcome to Mindnoscape! Use 'help' for the list of commands.")

	for _, script := range scripts {
		if err := c.ExecuteScript(script); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.Report(err)
		}
	}
	c.UpdatePrompt()

	for {
		err := c.Run()
		if err == nil {
			continue
		}
		if errors.Is(err, readline.ErrInterrupt) {
			c.UI.Println("Use 'exit' or 'quit' to exit the program.")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		c.Report(err)
	}
	a.Logger.Info(ctx, "Application stopped", nil)
	return nil
}
