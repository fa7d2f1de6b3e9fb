// Package readmodel maintains the relational projection of the event log and
// the projection cursor.
package readmodel

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is the storage format for timestamps in the read model.
const timeLayout = time.RFC3339Nano

// Store provides access to the read-model database. Statements are written
// with `?` placeholders and rebound for PostgreSQL.
type Store struct {
	db       *sql.DB
	postgres bool
}

// Open connects to the read-model database. URLs starting with postgres:// or
// postgresql:// use lib/pq; anything else is treated as a SQLite path.
func Open(url string) (*Store, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		db, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("open read model: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping read model: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		return &Store{db: db, postgres: true}, nil
	}

	db, err := sql.Open("sqlite3", url)
	if err != nil {
		return nil, fmt.Errorf("open read model: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle. postgres selects placeholder
// rebinding.
func NewStore(db *sql.DB, postgres bool) *Store {
	return &Store{db: db, postgres: postgres}
}

// DB exposes the underlying handle for the query facades.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Rebind converts `?` placeholders to the driver's syntax.
func (s *Store) Rebind(query string) string {
	if !s.postgres {
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

// Migrate creates missing tables, leaving existing data in place.
func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create read model schema: %w", err)
		}
	}
	return nil
}

// Reset drops and recreates every read-model table. The projection worker
// uses it on boot when re-tailing the log from position 0.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range tableNames {
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	return s.Migrate(ctx)
}

// Begin opens a read-model transaction.
func (s *Store) Begin(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// Cursor returns the persisted projection position, or 0 when none was
// recorded yet.
func (s *Store) Cursor(ctx context.Context) (int64, error) {
	var position int64
	err := s.db.QueryRowContext(ctx,
		s.Rebind("SELECT position FROM last_recorded_event_position WHERE id = ?"), 1,
	).Scan(&position)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cursor: %w", err)
	}
	return position, nil
}

// SaveCursor persists the projection position inside tx, so the cursor
// advances atomically with the projected state.
func (s *Store) SaveCursor(ctx context.Context, tx *sql.Tx, position int64) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO last_recorded_event_position (id, position) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET position = excluded.position
	`), position)
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
