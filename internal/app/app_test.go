package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"mindnoscape/canvas-app/internal/config"
)

func TestSessionOptions(t *testing.T) {
	cfg := config.Default()
	cfg.CanvasWidth, cfg.CanvasHeight = 1000, 400
	cfg.DefaultColor = "#ffcc00"
	cfg.RootLabel = "Plan"
	cfg.HistoryLimit = 20

	opts := SessionOptions(cfg)
	if opts.Tree.Bounds.Width() != 1000 || opts.Tree.Bounds.Height() != 400 {
		t.Errorf("bounds = %v", opts.Tree.Bounds)
	}
	if opts.Tree.Root.X != 500 || opts.Tree.Root.Y != 200 {
		t.Errorf("root at %v", opts.Tree.Root)
	}
	if opts.Tree.DefaultColor != "#ffcc00" || opts.RootLabel != "Plan" || opts.HistoryLimit != 20 || opts.RecentLimit != 5 {
		t.Errorf("options = %+v", opts)
	}
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := fmt.Sprintf(`{"data_dir": %q, "log_folder": %q, "root_label": "Plan", "watch_files": true}`,
		filepath.Join(dir, "data"), filepath.Join(dir, "log"))
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := Bootstrap(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Session.Tree().Root().Text; got != "Plan" {
		t.Errorf("root = %q", got)
	}
	if a.Watcher == nil {
		t.Error("watcher should be running")
	}
	if _, err := a.Session.LibraryStore("first"); err != nil {
		t.Errorf("library should be backed by the store: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "mindnoscape.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
}
