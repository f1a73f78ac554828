// Package app wires configuration, logging, storage, the file watcher and a
// session together for the command line and window front ends.
package app

import (
	"context"
	"errors"
	"fmt"

	"mindnoscape/canvas-app/internal/config"
	"mindnoscape/canvas-app/internal/geometry"
	"mindnoscape/canvas-app/internal/log"
	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/storage"
	"mindnoscape/canvas-app/internal/tree"
	"mindnoscape/canvas-app/internal/watch"
)

// App holds the long lived components of one process.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   *storage.SQLiteStore
	Session *session.Session
	// Watcher is nil when file watching is disabled or unavailable.
	Watcher *watch.Watcher
}

// SessionOptions derives session options from the configuration.
func SessionOptions(cfg *config.Config) session.Options {
	opts := tree.DefaultOptions()
	if cfg.CanvasWidth > 0 && cfg.CanvasHeight > 0 {
		opts.Bounds = geometry.NewRect(0, 0, cfg.CanvasWidth, cfg.CanvasHeight)
		opts.Root = opts.Bounds.Center()
	}
	if cfg.DefaultColor != "" {
		opts.DefaultColor = cfg.DefaultColor
	}
	return session.Options{
		Tree:         opts,
		RootLabel:    cfg.RootLabel,
		HistoryLimit: cfg.HistoryLimit,
		RecentLimit:  cfg.RecentLimit,
	}
}

// Bootstrap loads the configuration at configPath and initializes every
// component. On error everything opened so far is closed again.
func Bootstrap(configPath string) (a *App, err error) {
	if err := config.ConfigLoad(configPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.ConfigGet()

	logger, err := log.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	ctx := context.Background()
	a = &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	logger.Info(ctx, "Application started", log.Fields{"config": config.ConfigPath()})

	a.Store, err = storage.NewSQLiteStore(cfg.DataDir, cfg.DatabaseFile)
	if err != nil {
		logger.Error(ctx, "Failed to initialize storage", log.Fields{"error": err})
		return a, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info(ctx, "Storage initialized", log.Fields{"path": cfg.DatabasePath()})

	opts := SessionOptions(cfg)
	opts.Store = a.Store
	opts.Logger = logger
	a.Session, err = session.New(opts)
	if err != nil {
		logger.Error(ctx, "Failed to initialize session", log.Fields{"error": err})
		return a, fmt.Errorf("failed to initialize session: %w", err)
	}
	logger.Info(ctx, "Session initialized", nil)

	if cfg.WatchFiles {
		w, werr := watch.New(logger, 0)
		if werr != nil {
			// The editor works without change notices.
			logger.Warn(ctx, "File watching disabled", log.Fields{"error": werr})
		} else {
			a.Watcher = w
			logger.Info(ctx, "File watcher initialized", nil)
		}
	}
	return a, nil
}

// Close releases the watcher, the store and the logger, in that order.
func (a *App) Close() error {
	ctx := context.Background()
	var errs []error
	if a.Watcher != nil {
		if err := a.Watcher.Close(); err != nil {
			a.Logger.Error(ctx, "Failed to close file watcher", log.Fields{"error": err})
			errs = append(errs, err)
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Error(ctx, "Failed to close storage", log.Fields{"error": err})
			errs = append(errs, err)
		}
	}
	if err := a.Logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
