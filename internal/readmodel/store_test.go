package readmodel_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/readmodel"
)

func newStore(t *testing.T) *readmodel.Store {
	t.Helper()
	store, err := readmodel.Open(filepath.Join(t.TempDir(), "readmodel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestCursorDefaultsToZero(t *testing.T) {
	store := newStore(t)
	cursor, err := store.Cursor(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cursor)
}

func TestSaveCursorUpserts(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	save := func(position int64) {
		tx, err := store.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, store.SaveCursor(ctx, tx, position))
		require.NoError(t, tx.Commit())
	}

	save(3)
	save(7)

	cursor, err := store.Cursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cursor)
}

func TestResetDropsData(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.UpsertClub(ctx, tx, "c1", "Alpha", "", "u1"))
	require.NoError(t, store.SaveCursor(ctx, tx, 9))
	require.NoError(t, tx.Commit())

	require.NoError(t, store.Reset(ctx))

	var count int
	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM club").Scan(&count))
	assert.Zero(t, count)

	cursor, err := store.Cursor(ctx)
	require.NoError(t, err)
	assert.Zero(t, cursor)
}

func TestRebindIsSQLiteNoOp(t *testing.T) {
	store := newStore(t)
	assert.Equal(t, "SELECT ?, ?", store.Rebind("SELECT ?, ?"))
}

func TestRebindNumbersPostgresPlaceholders(t *testing.T) {
	store := readmodel.NewStore(nil, true)
	assert.Equal(t, "SELECT $1, $2", store.Rebind("SELECT ?, ?"))
}

func TestRemoveCollectivePlayerReportsMembership(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, store.UpsertCollective(ctx, tx, "k1", "c1", "U15", ""))

	added, err := store.AddCollectivePlayer(ctx, tx, "k1", "p1")
	require.NoError(t, err)
	assert.True(t, added)

	// A replayed add is a no-op.
	added, err = store.AddCollectivePlayer(ctx, tx, "k1", "p1")
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := store.RemoveCollectivePlayer(ctx, tx, "k1", "p1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.RemoveCollectivePlayer(ctx, tx, "k1", "p1")
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, tx.Commit())
}
