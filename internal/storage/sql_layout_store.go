package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"mockboard/internal/domain"
)

// SQL server drivers for the shared layout backends.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var sqlLayoutSchema = []string{
	`CREATE TABLE IF NOT EXISTS mb_node_positions (
		collection_id VARCHAR(64) NOT NULL,
		screen_id VARCHAR(255) NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (collection_id, screen_id)
	)`,
	`CREATE TABLE IF NOT EXISTS mb_connections (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		collection_id VARCHAR(64) NOT NULL,
		sort_order INTEGER NOT NULL,
		from_screen_id VARCHAR(255) NOT NULL,
		to_screen_id VARCHAR(255) NOT NULL,
		conn_type VARCHAR(32) NOT NULL,
		label VARCHAR(255) NOT NULL DEFAULT ''
	)`,
}

// SQLLayoutStore implements domain.LayoutStore on a Postgres or MySQL server
// so a team can share boards. Collections and screens stay in the local
// SQLite file.
type SQLLayoutStore struct {
	driver string
	conn   *sql.DB
}

// NewSQLLayoutStore opens dsn with driver, checks connectivity and creates
// the layout tables.
func NewSQLLayoutStore(ctx context.Context, driver, dsn string) (*SQLLayoutStore, error) {
	if driver != DriverPostgres && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported layout driver %q", driver)
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &SQLLayoutStore{driver: driver, conn: conn}
	for _, stmt := range sqlLayoutSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate layout tables: %w", err)
		}
	}
	return s, nil
}

func (s *SQLLayoutStore) Close(context.Context) error {
	return s.conn.Close()
}

// q rewrites ? placeholders into the driver's form.
func (s *SQLLayoutStore) q(query string) string {
	return rebind(s.driver, query)
}

// rebind turns ? placeholders into $1, $2, ... for Postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLLayoutStore) LoadPositions(ctx context.Context, collectionID string) (map[string]domain.Point, error) {
	rows, err := s.conn.QueryContext(ctx,
		s.q(`SELECT screen_id, x, y FROM mb_node_positions WHERE collection_id = ?`), collectionID,
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

func (s *SQLLayoutStore) SavePositions(ctx context.Context, collectionID string, positions map[string]domain.Point) error {
	return s.replace(ctx, "mb_node_positions", collectionID, func(tx *sql.Tx) error {
		for id, p := range positions {
			if _, err := tx.ExecContext(ctx,
				s.q(`INSERT INTO mb_node_positions (collection_id, screen_id, x, y) VALUES (?, ?, ?, ?)`),
				collectionID, id, p.X, p.Y,
			); err != nil {
				return fmt.Errorf("insert position %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SQLLayoutStore) LoadConnections(ctx context.Context, collectionID string) ([]domain.Connection, error) {
	rows, err := s.conn.QueryContext(ctx,
		s.q(`SELECT id, from_screen_id, to_screen_id, conn_type, label FROM mb_connections WHERE collection_id = ? ORDER BY sort_order ASC`),
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

func (s *SQLLayoutStore) SaveConnections(ctx context.Context, collectionID string, conns []domain.Connection) error {
	return s.replace(ctx, "mb_connections", collectionID, func(tx *sql.Tx) error {
		for i, c := range conns {
			if _, err := tx.ExecContext(ctx,
				s.q(`INSERT INTO mb_connections (id, collection_id, sort_order, from_screen_id, to_screen_id, conn_type, label) VALUES (?, ?, ?, ?, ?, ?, ?)`),
				c.ID, collectionID, i, c.From, c.To, string(c.Type), c.Label,
			); err != nil {
				return fmt.Errorf("insert connection %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLLayoutStore) DeleteCollection(ctx context.Context, collectionID string) error {
	if err := s.replace(ctx, "mb_node_positions", collectionID, nil); err != nil {
		return err
	}
	return s.replace(ctx, "mb_connections", collectionID, nil)
}

// replace clears table's rows for the collection and runs fill in the same
// transaction.
func (s *SQLLayoutStore) replace(ctx context.Context, table, collectionID string, fill func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM `+table+` WHERE collection_id = ?`), collectionID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if fill != nil {
		if err := fill(tx); err != nil {
			return err
		}
	}
	return tx.Commit()
}
