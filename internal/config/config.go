// Package config loads mockboard's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"mockboard/internal/canvas"
)

// Config holds mockboard configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Minimap MinimapConfig `toml:"minimap"`
	History HistoryConfig `toml:"history"`
}

// StorageConfig selects where layouts are persisted.
type StorageConfig struct {
	Backend       string `toml:"backend"` // "sqlite", "mongo", "postgres" or "mysql"
	DataDir       string `toml:"data_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	DSN           string `toml:"dsn"` // postgres and mysql backends
}

// CanvasConfig controls snapping and framing.
type CanvasConfig struct {
	GridSize       float64 `toml:"grid_size"`
	GridSnap       bool    `toml:"grid_snap"`
	Align          bool    `toml:"align"`
	SnapThreshold  float64 `toml:"snap_threshold"`
	FitPadding     float64 `toml:"fit_padding"`
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
}

type MinimapConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// HistoryConfig controls layout history retention.
type HistoryConfig struct {
	MaxEntries    int    `toml:"max_entries"`
	PruneSchedule string `toml:"prune_schedule"` // cron spec
	RecordDrags   bool   `toml:"record_drags"`
}

const (
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       BackendSQLite,
			DataDir:       DataDir(),
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "mockboard",
		},
		Canvas: CanvasConfig{
			GridSize:       canvas.GridSize,
			Align:          true,
			SnapThreshold:  canvas.SnapThreshold,
			FitPadding:     canvas.FitPadding,
			ViewportWidth:  1440,
			ViewportHeight: 900,
		},
		Minimap: MinimapConfig{
			Width:  canvas.DefaultMinimapSize.Width,
			Height: canvas.DefaultMinimapSize.Height,
		},
		History: HistoryConfig{
			MaxEntries:    40,
			PruneSchedule: "@every 10m",
			RecordDrags:   true,
		},
	}
}

// ConfigDir returns the mockboard config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mockboard")
}

// DataDir is the default directory for the SQLite database.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "mockboard")
}

// DefaultPath is the config file used when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path over the defaults. A missing file is not an
// error. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to path, or DefaultPath when empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// normalize replaces out of range values with defaults.
func (c *Config) normalize() {
	def := Default()
	switch c.Storage.Backend {
	case BackendMongo, BackendPostgres, BackendMySQL:
	default:
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = def.Storage.DataDir
	}
	if c.Canvas.GridSize <= 0 {
		c.Canvas.GridSize = def.Canvas.GridSize
	}
	if c.Canvas.SnapThreshold < 0 {
		c.Canvas.SnapThreshold = def.Canvas.SnapThreshold
	}
	if c.Canvas.FitPadding < 0 {
		c.Canvas.FitPadding = def.Canvas.FitPadding
	}
	if c.Canvas.ViewportWidth <= 0 || c.Canvas.ViewportHeight <= 0 {
		c.Canvas.ViewportWidth = def.Canvas.ViewportWidth
		c.Canvas.ViewportHeight = def.Canvas.ViewportHeight
	}
	if c.Minimap.Width <= 0 || c.Minimap.Height <= 0 {
		c.Minimap = def.Minimap
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = def.History.MaxEntries
	}
	if c.History.PruneSchedule == "" {
		c.History.PruneSchedule = def.History.PruneSchedule
	}
}

// DBPath is the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.Storage.DataDir, "mockboard.db")
}

// SnapOptions converts the canvas section into engine snap options.
func (c *Config) SnapOptions() canvas.SnapOptions {
	return canvas.SnapOptions{
		Align:     c.Canvas.Align,
		GridSnap:  c.Canvas.GridSnap,
		GridSize:  c.Canvas.GridSize,
		Threshold: c.Canvas.SnapThreshold,
		Zoom:      1,
	}
}

// SessionConfig is the engine configuration for a newly opened collection.
func (c *Config) SessionConfig() canvas.SessionConfig {
	return canvas.SessionConfig{
		Snap:       c.SnapOptions(),
		Viewport:   canvas.Size{Width: c.Canvas.ViewportWidth, Height: c.Canvas.ViewportHeight},
		Minimap:    canvas.Size{Width: c.Minimap.Width, Height: c.Minimap.Height},
		FitPadding: c.Canvas.FitPadding,
	}
}
