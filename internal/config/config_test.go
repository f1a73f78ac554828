package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	if err := ConfigLoad(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	cfg := ConfigGet()
	if cfg.RootLabel != "Central Idea" || cfg.RecentLimit != 5 || cfg.CanvasWidth != 800 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if ConfigPath() != path {
		t.Errorf("ConfigPath() = %q, want %q", ConfigPath(), path)
	}
}

func TestConfigLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"root_label": "Plan", "canvas_width": 1024}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ConfigLoad(path); err != nil {
		t.Fatal(err)
	}
	cfg := ConfigGet()
	if cfg.RootLabel != "Plan" || cfg.CanvasWidth != 1024 {
		t.Errorf("explicit values lost: %+v", cfg)
	}
	if cfg.CanvasHeight != 600 || cfg.DefaultColor != "lightblue" || cfg.DatabaseFile != "mindnoscape.db" {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	// The completed file is written back
	if err := ConfigLoad(path); err != nil {
		t.Fatal(err)
	}
	if ConfigGet().fillDefaults() {
		t.Error("reloaded config should already be complete")
	}
}

func TestConfigLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"root_label": `), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ConfigLoad(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	if got := cfg.DatabasePath(); got != filepath.Join("data", "mindnoscape.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
}
