package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mockboard/internal/domain"
)

// LayoutStore implements domain.LayoutStore using SQLite. Saves replace the
// whole set for a collection in one transaction.
type LayoutStore struct {
	db *DB
}

func NewLayoutStore(db *DB) *LayoutStore {
	return &LayoutStore{db: db}
}

func (s *LayoutStore) LoadPositions(ctx context.Context, collectionID string) (map[string]domain.Point, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT screen_id, x, y FROM node_positions WHERE collection_id = ?`, collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]domain.Point)
	for rows.Next() {
		var id string
		var p domain.Point
		if err := rows.Scan(&id, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions[id] = p
	}
	return positions, rows.Err()
}

func (s *LayoutStore) SavePositions(ctx context.Context, collectionID string, positions map[string]domain.Point) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM node_positions WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	for id, p := range positions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO node_positions (collection_id, screen_id, x, y) VALUES (?, ?, ?, ?)`,
			collectionID, id, p.X, p.Y,
		); err != nil {
			return fmt.Errorf("insert position %s: %w", id, err)
		}
	}
	if err := touchCollection(ctx, tx, collectionID); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadConnections returns the collection's edges in their stored order.
func (s *LayoutStore) LoadConnections(ctx context.Context, collectionID string) ([]domain.Connection, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, from_screen_id, to_screen_id, type, label FROM connections WHERE collection_id = ? ORDER BY sort_order ASC`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	defer rows.Close()

	var conns []domain.Connection
	for rows.Next() {
		var c domain.Connection
		if err := rows.Scan(&c.ID, &c.From, &c.To, &c.Type, &c.Label); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func (s *LayoutStore) SaveConnections(ctx context.Context, collectionID string, conns []domain.Connection) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM connections WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("delete connections: %w", err)
	}
	for i, c := range conns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO connections (id, collection_id, sort_order, from_screen_id, to_screen_id, type, label) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, collectionID, i, c.From, c.To, string(c.Type), c.Label,
		); err != nil {
			return fmt.Errorf("insert connection %s: %w", c.ID, err)
		}
	}
	if err := touchCollection(ctx, tx, collectionID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteCollection drops the stored layout of a collection.
func (s *LayoutStore) DeleteCollection(ctx context.Context, collectionID string) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM node_positions WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM connections WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("delete connections: %w", err)
	}
	return tx.Commit()
}

// touchCollection bumps updated_at so other processes sharing the file see
// a new Revision.
func touchCollection(ctx context.Context, tx *sql.Tx, collectionID string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE collections SET updated_at = ? WHERE id = ?`, time.Now(), collectionID,
	); err != nil {
		return fmt.Errorf("touch collection: %w", err)
	}
	return nil
}
