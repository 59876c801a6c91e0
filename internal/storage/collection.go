package storage

import (
	"fmt"
	"time"

	"mockboard/internal/domain"
)

// CollectionStore implements domain.CollectionStore using SQLite.
type CollectionStore struct {
	db *DB
}

func NewCollectionStore(db *DB) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) CreateCollection(c *domain.Collection) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Zoom == 0 {
		c.Zoom = 1
	}
	_, err := s.db.conn.Exec(
		`INSERT INTO collections (id, name, pan_x, pan_y, zoom, grid_snap, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.PanX, c.PanY, c.Zoom, c.GridSnap, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *CollectionStore) GetCollection(id string) (*domain.Collection, error) {
	c := &domain.Collection{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, pan_x, pan_y, zoom, grid_snap, created_at, updated_at FROM collections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.PanX, &c.PanY, &c.Zoom, &c.GridSnap, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (s *CollectionStore) ListCollections() ([]domain.Collection, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, pan_x, pan_y, zoom, grid_snap, created_at, updated_at FROM collections ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []domain.Collection
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.PanX, &c.PanY, &c.Zoom, &c.GridSnap, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// UpdateCollection saves name, camera and grid snap.
func (s *CollectionStore) UpdateCollection(c *domain.Collection) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE collections SET name = ?, pan_x = ?, pan_y = ?, zoom = ?, grid_snap = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.PanX, c.PanY, c.Zoom, c.GridSnap, c.UpdatedAt, c.ID,
	)
	return err
}

// DeleteCollection removes a collection and everything stored under it.
func (s *CollectionStore) DeleteCollection(id string) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM history_state WHERE collection_id = ?`,
		`DELETE FROM layout_history WHERE collection_id = ?`,
		`DELETE FROM connections WHERE collection_id = ?`,
		`DELETE FROM node_positions WHERE collection_id = ?`,
		`DELETE FROM screens WHERE collection_id = ?`,
		`DELETE FROM collections WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
	}
	return tx.Commit()
}

// Revision fingerprints a collection's stored layout. It changes whenever
// positions, connections, camera or the screen list are saved.
func (s *CollectionStore) Revision(id string) (string, error) {
	var updated string
	var screens int
	err := s.db.conn.QueryRow(
		`SELECT COALESCE(c.updated_at, ''), (SELECT COUNT(*) FROM screens WHERE collection_id = c.id)
		 FROM collections c WHERE c.id = ?`, id,
	).Scan(&updated, &screens)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%s", screens, updated), nil
}

// ListRevision fingerprints the collection list.
func (s *CollectionStore) ListRevision() (string, error) {
	var count int
	var maxCreated string
	err := s.db.conn.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(created_at), '') FROM collections`,
	).Scan(&count, &maxCreated)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%s", count, maxCreated), nil
}
