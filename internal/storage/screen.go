package storage

import (
	"fmt"
	"time"

	"mockboard/internal/domain"
)

// ScreenStore implements domain.ScreenStore using SQLite.
type ScreenStore struct {
	db *DB
}

func NewScreenStore(db *DB) *ScreenStore {
	return &ScreenStore{db: db}
}

// CreateScreen registers a screen. A zero Order appends it after the
// collection's existing screens.
func (s *ScreenStore) CreateScreen(sc *domain.Screen) error {
	sc.CreatedAt = time.Now()
	if sc.Order == 0 {
		var maxOrder int
		if err := s.db.conn.QueryRow(
			`SELECT COALESCE(MAX(sort_order), 0) FROM screens WHERE collection_id = ?`, sc.CollectionID,
		).Scan(&maxOrder); err != nil {
			return fmt.Errorf("next screen order: %w", err)
		}
		sc.Order = maxOrder + 1
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO screens (id, collection_id, name, sort_order, created_at) VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.CollectionID, sc.Name, sc.Order, sc.CreatedAt,
	)
	return err
}

// ListScreens returns a collection's screens in registration order.
func (s *ScreenStore) ListScreens(collectionID string) ([]domain.Screen, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, collection_id, name, sort_order, created_at FROM screens WHERE collection_id = ? ORDER BY sort_order ASC, created_at ASC`,
		collectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var screens []domain.Screen
	for rows.Next() {
		var sc domain.Screen
		if err := rows.Scan(&sc.ID, &sc.CollectionID, &sc.Name, &sc.Order, &sc.CreatedAt); err != nil {
			return nil, err
		}
		screens = append(screens, sc)
	}
	return screens, rows.Err()
}

// DeleteScreen removes a screen of a collection and its stored position.
// Connections that refer to it are kept.
func (s *ScreenStore) DeleteScreen(collectionID, id string) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM node_positions WHERE collection_id = ? AND screen_id = ?`, collectionID, id); err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM screens WHERE collection_id = ? AND id = ?`, collectionID, id); err != nil {
		return fmt.Errorf("delete screen: %w", err)
	}
	return tx.Commit()
}

func (s *ScreenStore) DeleteScreensByCollection(collectionID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM screens WHERE collection_id = ?`, collectionID)
	return err
}
