package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eiannone/keyboard"

	"mindnoscape/canvas-app/internal/config"
	"mindnoscape/canvas-app/internal/logview"
	"mindnoscape/canvas-app/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "configuration file naming the log folder")
	filter := flag.String("filter", "", "initial filter: only show entries containing this text, ignoring case")
	once := flag.Bool("once", false, "print the current entries and exit")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: logviewer [options] [log directory]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath, flag.Arg(0), *filter, *once); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, dir, filter string, once bool) error {
	if dir == "" {
		if err := config.ConfigLoad(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		dir = config.ConfigGet().LogFolder
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("log directory '%s' does not exist", dir)
	}

	t := logview.NewTailer(dir, os.Stdout)
	t.Filter = filter
	t.UseColor = ui.IsTerminal(os.Stdout)

	if once {
		_, err := t.Scan()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var keys <-chan keyboard.KeyEvent
	if ui.IsTerminal(os.Stdin) {
		events, err := keyboard.GetKeys(10)
		if err != nil {
			return fmt.Errorf("failed to open keyboard: %w", err)
		}
		defer keyboard.Close()
		keys = events
		fmt.Println("Type to filter logs, Backspace to remove the last character.")
	}
	fmt.Printf("Following logs in %s. Press Ctrl-C to exit.\n", dir)
	return t.Follow(ctx, keys)
}
