package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
	"github.com/lvassor/my-club/internal/repository/sqlite"
)

func newStore(t *testing.T) *sqlite.EventStore {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)

	store, err := sqlite.NewEventStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func coachAdded(clubID, userID string) domain.Event {
	return domain.CoachAdded{BaseEvent: domain.NewBaseEvent("u1"), ClubID: clubID, UserID: userID}
}

func TestSQLiteAppendAndReadStream(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "a"), coachAdded("1", "b")}, -1))
	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "c")}, 1))

	events, err := store.ReadStream(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, i, e.Version)
	}

	decoded, err := events[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, "CoachAdded", decoded.EventType())
}

func TestSQLiteConcurrencyConflict(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "a")}, -1))

	err := store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "b")}, -1)
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)

	events, err := store.ReadStream(ctx, "club-1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteGlobalLog(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "a")}, -1))
	require.NoError(t, store.Append(ctx, "club-2", []domain.Event{coachAdded("2", "b")}, -1))
	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "c")}, 0))

	last, err := store.LastPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)

	all, err := store.ReadFrom(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, e := range all {
		assert.Equal(t, int64(i), e.Position)
	}

	tail, err := store.ReadFrom(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, int64(1), tail[0].Position)
	assert.Equal(t, "club-2", tail[0].StreamID)
}
