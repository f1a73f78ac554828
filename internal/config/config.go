// Package config provides functionality for loading, saving, and managing
// application configuration settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Config represents the configuration settings for the application.
type Config struct {
	DataDir      string `json:"data_dir"`
	DatabaseFile string `json:"database_file"`
	LogFolder    string `json:"log_folder"`
	CommandLog   string `json:"command_log"`
	ErrorLog     string `json:"error_log"`
	InfoLog      string `json:"info_log"`
	InfoEnabled  bool   `json:"info_enabled"`
	HistoryFile  string `json:"history_file"`

	CanvasWidth  float64 `json:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height"`
	RootLabel    string  `json:"root_label"`
	DefaultColor string  `json:"default_color"`

	RecentLimit  int  `json:"recent_limit"`
	HistoryLimit int  `json:"history_limit"`
	UseColor     bool `json:"use_color"`
	WatchFiles   bool `json:"watch_files"`
}

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		DataDir:      "./data",
		DatabaseFile: "mindnoscape.db",
		LogFolder:    "./log",
		CommandLog:   "commands.log",
		ErrorLog:     "errors.log",
		InfoLog:      "info.log",
		HistoryFile:  ".mindnoscape_history",
		CanvasWidth:  800,
		CanvasHeight: 600,
		RootLabel:    "Central Idea",
		DefaultColor: "lightblue",
		RecentLimit:  5,
		UseColor:     true,
		WatchFiles:   true,
	}
}

// Global variables to store the current configuration and its file path.
var (
	currentConfig *Config
	configPath    = "./data/config.json"
)

// DefaultPath is the config file used when none is given on the command line.
func DefaultPath() string {
	return "./data/config.json"
}

// ConfigLoad loads the configuration from the JSON file at path.
// If the file doesn't exist, it creates a default configuration.
func ConfigLoad(path string) error {
	if path != "" {
		configPath = path
	}

	// Ensure the data directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := Default()
		if err := ConfigSave(defaultConfig); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
		currentConfig = defaultConfig
		return nil
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(file, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fields added after the file was written fall back to defaults
	if cfg.fillDefaults() {
		if err := ConfigSave(cfg); err != nil {
			return fmt.Errorf("failed to save updated config: %w", err)
		}
	}

	currentConfig = cfg
	return nil
}

// fillDefaults replaces zero values that have no meaning with the defaults
// and reports whether anything changed.
func (c *Config) fillDefaults() bool {
	def := Default()
	changed := false
	str := func(field *string, fallback string) {
		if *field == "" {
			*field = fallback
			changed = true
		}
	}
	num := func(field *float64, fallback float64) {
		if *field <= 0 {
			*field = fallback
			changed = true
		}
	}

	str(&c.DataDir, def.DataDir)
	str(&c.DatabaseFile, def.DatabaseFile)
	str(&c.LogFolder, def.LogFolder)
	str(&c.CommandLog, def.CommandLog)
	str(&c.ErrorLog, def.ErrorLog)
	str(&c.InfoLog, def.InfoLog)
	str(&c.HistoryFile, def.HistoryFile)
	str(&c.RootLabel, def.RootLabel)
	str(&c.DefaultColor, def.DefaultColor)
	num(&c.CanvasWidth, def.CanvasWidth)
	num(&c.CanvasHeight, def.CanvasHeight)
	if c.RecentLimit <= 0 {
		c.RecentLimit = def.RecentLimit
		changed = true
	}
	if c.HistoryLimit < 0 {
		c.HistoryLimit = 0
		changed = true
	}
	return changed
}

// ConfigSave saves the provided configuration to the JSON file.
func ConfigSave(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigGet returns the current configuration.
func ConfigGet() *Config {
	return currentConfig
}

// ConfigPath returns the file the configuration was loaded from.
func ConfigPath() string {
	return configPath
}

// DatabasePath joins the data directory and the database file name.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}
