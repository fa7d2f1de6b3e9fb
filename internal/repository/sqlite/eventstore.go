// Package sqlite provides a SQLite implementation of the event store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// EventStore is a SQLite implementation of repository.EventStore.
type EventStore struct {
	db *sql.DB
	mu sync.Mutex // serialize writes for SQLite
}

// NewEventStore creates a new SQLite event store.
func NewEventStore(db *sql.DB) (*EventStore, error) {
	store := &EventStore{db: db}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

// createTables creates the event store schema if it doesn't exist.
func (s *EventStore) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			stream_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			data TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (stream_id, version),
			UNIQUE (position)
		);

		CREATE INDEX IF NOT EXISTS idx_events_position ON events(position);
	`)
	return err
}

// Append adds events to a stream with optimistic concurrency control. The
// read-compare-append sequence runs inside a single transaction guarded by the
// store mutex, so either every event of the batch is committed or none is.
func (s *EventStore) Append(ctx context.Context, streamID string, events []domain.Event, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentVersion int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), -1) FROM events WHERE stream_id = ?",
		streamID,
	).Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}
	if currentVersion != expectedVersion {
		return repository.ErrConcurrencyConflict
	}

	var lastPosition int64
	err = tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) FROM events").Scan(&lastPosition)
	if err != nil {
		return fmt.Errorf("get last position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (stream_id, version, event_type, data, position)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, event := range events {
		stored, err := repository.EncodeEvent(streamID, event, expectedVersion+1+i, lastPosition+1+int64(i))
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			stored.StreamID,
			stored.Version,
			stored.EventType,
			string(stored.Data),
			stored.Position,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// ReadStream reads all events for one stream in version order.
func (s *EventStore) ReadStream(ctx context.Context, streamID string) ([]repository.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stream_id, version, event_type, data, position
		FROM events
		WHERE stream_id = ?
		ORDER BY version ASC
	`, streamID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// LastPosition returns the number of entries in the global log.
func (s *EventStore) LastPosition(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// ReadFrom reads events whose global position is >= position, in position
// order, up to limit.
func (s *EventStore) ReadFrom(ctx context.Context, position int64, limit int) ([]repository.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stream_id, version, event_type, data, position
		FROM events
		WHERE position >= ?
		ORDER BY position ASC
		LIMIT ?
	`, position, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// scanEvents scans rows into a StoredEvent slice.
func scanEvents(rows *sql.Rows) ([]repository.StoredEvent, error) {
	var events []repository.StoredEvent
	for rows.Next() {
		var (
			event   repository.StoredEvent
			dataStr string
		)
		if err := rows.Scan(&event.StreamID, &event.Version, &event.EventType, &dataStr, &event.Position); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Data = []byte(dataStr)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Close closes the database connection.
func (s *EventStore) Close() error {
	return s.db.Close()
}
