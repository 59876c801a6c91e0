package config_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"mockboard/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Storage.Backend != config.BackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Canvas.GridSize != 20 || cfg.Canvas.SnapThreshold != 8 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Canvas.GridSnap || !cfg.Canvas.Align {
		t.Errorf("grid snap should default off and alignment on: %+v", cfg.Canvas)
	}
	if cfg.History.MaxEntries != 40 {
		t.Errorf("max entries = %d, want 40", cfg.History.MaxEntries)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas != config.Default().Canvas {
		t.Errorf("canvas = %+v, want defaults", cfg.Canvas)
	}
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[storage]
backend = "mongo"
mongo_database = "boards"

[canvas]
grid_snap = true
grid_size = 25

[minimap]
width = -1

[history]
max_entries = 10
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"backend", cfg.Storage.Backend, config.BackendMongo},
		{"mongo db", cfg.Storage.MongoDatabase, "boards"},
		{"mongo uri kept", cfg.Storage.MongoURI, "mongodb://localhost:27017"},
		{"grid snap", cfg.Canvas.GridSnap, true},
		{"grid size", cfg.Canvas.GridSize, 25.0},
		{"align kept", cfg.Canvas.Align, true},
		{"minimap reset", cfg.Minimap, config.Default().Minimap},
		{"max entries", cfg.History.MaxEntries, 10},
		{"schedule kept", cfg.History.PruneSchedule, "@every 10m"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	opts := cfg.SnapOptions()
	if !opts.GridSnap || opts.GridSize != 25 {
		t.Errorf("snap options = %+v", opts)
	}
}

func TestLoad_Backends(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"postgres", config.BackendPostgres},
		{"mysql", config.BackendMySQL},
		{"mongo", config.BackendMongo},
		{"cassandra", config.BackendSQLite},
		{"", config.BackendSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			data := "[storage]\nbackend = \"" + tt.backend + "\"\ndsn = \"postgres://localhost/boards\"\n"
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := config.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Storage.Backend != tt.want {
				t.Errorf("backend = %q, want %q", cfg.Storage.Backend, tt.want)
			}
			if cfg.Storage.DSN != "postgres://localhost/boards" {
				t.Errorf("dsn = %q", cfg.Storage.DSN)
			}
		})
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[canvas\ngrid_size = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.Default()
	cfg.Canvas.GridSnap = true
	cfg.History.PruneSchedule = "0 3 * * *"

	if err := config.Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.Save(config.Default(), path); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *config.Config, 8)
	w, err := config.Watch(path, config.Default(), func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[canvas]\ngrid_snap = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Canvas.GridSnap {
				if !w.Current().Canvas.GridSnap {
					t.Error("Current() not updated")
				}
				return
			}
		case <-timeout:
			t.Fatal("no reload within 5s")
		}
	}
}
