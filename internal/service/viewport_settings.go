package service

import (
	"database/sql"
	"fmt"

	"mockboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Viewport Settings Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size and the last opened
// collection between sessions. Stored in SQLite as key-value rows in
// app_settings, which the storage migration creates.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ViewportSettingsService persists window size and the last collection.
type ViewportSettingsService struct {
	db *storage.DB
}

// NewViewportSettingsService creates a ViewportSettingsService.
func NewViewportSettingsService(db *storage.DB) *ViewportSettingsService {
	return &ViewportSettingsService{db: db}
}

const (
	settingWindowWidth    = "window_width"
	settingWindowHeight   = "window_height"
	settingLastCollection = "last_collection"
	defaultWindowWidth    = 1440
	defaultWindowHeight   = 900
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *ViewportSettingsService) LoadWindowSize() WindowSize {
	if s.db == nil {
		return WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	}
	conn := s.db.Conn()

	w := defaultWindowWidth
	h := defaultWindowHeight
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowWidth).Scan(&w)
	conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingWindowHeight).Scan(&h)

	if w < 800 {
		w = defaultWindowWidth
	}
	if h < 600 {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *ViewportSettingsService) SaveWindowSize(width, height int) error {
	if s.db == nil {
		return fmt.Errorf("viewport settings: no db")
	}
	conn := s.db.Conn()
	if err := upsertSetting(conn, settingWindowWidth, width); err != nil {
		return err
	}
	return upsertSetting(conn, settingWindowHeight, height)
}

// LastCollection returns the id of the collection open at last shutdown.
func (s *ViewportSettingsService) LastCollection() string {
	if s.db == nil {
		return ""
	}
	var id string
	s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, settingLastCollection).Scan(&id)
	return id
}

// SaveLastCollection remembers id for the next start.
func (s *ViewportSettingsService) SaveLastCollection(id string) error {
	if s.db == nil {
		return fmt.Errorf("viewport settings: no db")
	}
	return upsertSetting(s.db.Conn(), settingLastCollection, id)
}

func upsertSetting(conn *sql.DB, key string, value any) error {
	_, err := conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
