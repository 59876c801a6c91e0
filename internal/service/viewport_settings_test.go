package service_test

import (
	"path/filepath"
	"testing"

	"mockboard/internal/service"
	"mockboard/internal/storage"
)

func TestViewportSettings_Defaults(t *testing.T) {
	s := service.NewViewportSettingsService(nil)
	got := s.LoadWindowSize()
	if got.Width != 1440 || got.Height != 900 {
		t.Errorf("defaults = %+v, want 1440x900", got)
	}
	if err := s.SaveWindowSize(1000, 700); err == nil {
		t.Error("expected error without a db")
	}
}

func TestViewportSettings_RoundTrip(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	s := service.NewViewportSettingsService(db)

	tests := []struct {
		name          string
		width, height int
		want          service.WindowSize
	}{
		{"saved", 1600, 1000, service.WindowSize{Width: 1600, Height: 1000}},
		{"too small", 500, 400, service.WindowSize{Width: 1440, Height: 900}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SaveWindowSize(tt.width, tt.height); err != nil {
				t.Fatal(err)
			}
			if got := s.LoadWindowSize(); got != tt.want {
				t.Errorf("LoadWindowSize = %+v, want %+v", got, tt.want)
			}
		})
	}

	if err := s.SaveLastCollection("c1"); err != nil {
		t.Fatal(err)
	}
	if got := s.LastCollection(); got != "c1" {
		t.Errorf("LastCollection = %q, want c1", got)
	}
}
