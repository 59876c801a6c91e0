package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mockboard/internal/domain"
)

// HistoryTree is the full layout history of one collection.
type HistoryTree struct {
	Entries   []domain.HistoryEntry `json:"entries"`
	CurrentID string                `json:"currentId"`
	RootID    string                `json:"rootId"`
}

// HistoryStore keeps position snapshots per collection in SQLite. Entries
// form a tree through parent_id; history_state points at the current one.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// LoadTree returns the history of a collection, or nil when there is none.
func (s *HistoryStore) LoadTree(collectionID string) (*HistoryTree, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, collection_id, parent_id, label, positions_json, created_at
		 FROM layout_history WHERE collection_id = ? ORDER BY created_at ASC, rowid ASC`, collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	var rootID string
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if e.ParentID == nil {
			rootID = e.ID
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	currentID, err := s.currentID(collectionID)
	if err != nil || currentID == "" {
		currentID = rootID
	}

	return &HistoryTree{
		Entries:   entries,
		CurrentID: currentID,
		RootID:    rootID,
	}, nil
}

// Get returns one entry.
func (s *HistoryStore) Get(id string) (*domain.HistoryEntry, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, collection_id, parent_id, label, positions_json, created_at
		 FROM layout_history WHERE id = ?`, id,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get history entry: %w", err)
	}
	return e, nil
}

// Push stores a snapshot under the collection's current entry and makes it
// current.
func (s *HistoryStore) Push(collectionID, entryID, label string, positions map[string]domain.Point) (*domain.HistoryEntry, error) {
	raw, err := json.Marshal(positions)
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}

	parent, err := s.currentID(collectionID)
	if err != nil {
		return nil, err
	}
	var pID *string
	if parent != "" {
		pID = &parent
	}

	now := time.Now()
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO layout_history (id, collection_id, parent_id, label, positions_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entryID, collectionID, pID, label, string(raw), now,
	); err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO history_state (collection_id, current_entry_id) VALUES (?, ?)
		 ON CONFLICT(collection_id) DO UPDATE SET current_entry_id = excluded.current_entry_id`,
		collectionID, entryID,
	); err != nil {
		return nil, fmt.Errorf("update history state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.HistoryEntry{
		ID:           entryID,
		CollectionID: collectionID,
		ParentID:     pID,
		Label:        label,
		Positions:    positions,
		CreatedAt:    now,
	}, nil
}

// GoTo moves the current pointer.
func (s *HistoryStore) GoTo(collectionID, entryID string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO history_state (collection_id, current_entry_id) VALUES (?, ?)
		 ON CONFLICT(collection_id) DO UPDATE SET current_entry_id = excluded.current_entry_id`,
		collectionID, entryID,
	)
	return err
}

// Clear removes all history of a collection.
func (s *HistoryStore) Clear(collectionID string) error {
	if _, err := s.db.Conn().Exec(`DELETE FROM history_state WHERE collection_id = ?`, collectionID); err != nil {
		return err
	}
	_, err := s.db.Conn().Exec(`DELETE FROM layout_history WHERE collection_id = ?`, collectionID)
	return err
}

// CollectionIDs lists every collection that has history.
func (s *HistoryStore) CollectionIDs() ([]string, error) {
	rows, err := s.db.Conn().Query(`SELECT DISTINCT collection_id FROM layout_history`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Prune removes the oldest entries beyond maxEntries, never the current
// one. Children of a removed entry are re-parented to its parent.
func (s *HistoryStore) Prune(collectionID string, maxEntries int) (int, error) {
	var count int
	if err := s.db.Conn().QueryRow(
		`SELECT COUNT(*) FROM layout_history WHERE collection_id = ?`, collectionID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	if count <= maxEntries {
		return 0, nil
	}

	// Read the current entry before opening the rows cursor; with a single
	// connection a nested query would block.
	currentID, err := s.currentID(collectionID)
	if err != nil {
		return 0, err
	}

	rows, err := s.db.Conn().Query(
		`SELECT id FROM layout_history WHERE collection_id = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT ?`, collectionID, count-maxEntries,
	)
	if err != nil {
		return 0, fmt.Errorf("select oldest: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		if id != currentID {
			ids = append(ids, id)
		}
	}
	rows.Close()

	for _, id := range ids {
		var parentID sql.NullString
		if err := s.db.Conn().QueryRow(`SELECT parent_id FROM layout_history WHERE id = ?`, id).Scan(&parentID); err != nil {
			return 0, fmt.Errorf("read parent of %s: %w", id, err)
		}
		if parentID.Valid {
			_, err = s.db.Conn().Exec(`UPDATE layout_history SET parent_id = ? WHERE parent_id = ?`, parentID.String, id)
		} else {
			_, err = s.db.Conn().Exec(`UPDATE layout_history SET parent_id = NULL WHERE parent_id = ?`, id)
		}
		if err != nil {
			return 0, fmt.Errorf("re-parent children of %s: %w", id, err)
		}
		if _, err := s.db.Conn().Exec(`DELETE FROM layout_history WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return len(ids), nil
}

func (s *HistoryStore) currentID(collectionID string) (string, error) {
	var id string
	err := s.db.Conn().QueryRow(
		`SELECT current_entry_id FROM history_state WHERE collection_id = ?`, collectionID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read history state: %w", err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*domain.HistoryEntry, error) {
	var e domain.HistoryEntry
	var raw string
	if err := r.Scan(&e.ID, &e.CollectionID, &e.ParentID, &e.Label, &raw, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan history entry: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &e.Positions); err != nil {
		return nil, fmt.Errorf("decode positions of %s: %w", e.ID, err)
	}
	return &e, nil
}
