package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mindnoscape/canvas-app/internal/app"
	"mindnoscape/canvas-app/internal/config"
	"mindnoscape/canvas-app/internal/gui"
	"mindnoscape/canvas-app/internal/log"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path of the configuration file")
	flag.Parse()

	if err := run(*configPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run opens the canvas window, optionally on the map stored at path.
func run(configPath, path string) error {
	a, err := app.Bootstrap(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := context.Background()

	if path != "" {
		if err := a.Session.Load(path); err != nil {
			a.Logger.Error(ctx, "Failed to load map", log.Fields{"path": path, "error": err})
			return err
		}
	}

	g := gui.NewGame(a.Session, a.Watcher, a.Logger)
	a.Logger.Info(ctx, "Window initialized", nil)
	if err := gui.Run(g, "Mindnoscape"); err != nil {
		a.Logger.Error(ctx, "Window closed with error", log.Fields{"error": err})
		return err
	}
	a.Logger.Info(ctx, "Application stopped", nil)
	return nil
}
