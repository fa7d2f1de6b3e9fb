package query_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/query"
	"github.com/lvassor/my-club/internal/readmodel"
)

type fixture struct {
	store  *readmodel.Store
	public *query.PublicQueries
	club   *query.ClubQueries
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := readmodel.Open(filepath.Join(t.TempDir(), "readmodel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	return &fixture{
		store:  store,
		public: query.NewPublicQueries(store),
		club:   query.NewClubQueries(store),
		ctx:    ctx,
	}
}

func (f *fixture) inTx(t *testing.T, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := f.store.Begin(f.ctx)
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func (f *fixture) seedClub(t *testing.T, id, name, owner string) {
	f.inTx(t, func(tx *sql.Tx) {
		require.NoError(t, f.store.UpsertClub(f.ctx, tx, id, name, "", owner))
	})
}

func (f *fixture) seedPlayer(t *testing.T, id, clubID, firstName, lastName, license string) {
	f.inTx(t, func(tx *sql.Tx) {
		require.NoError(t, f.store.UpsertPlayer(f.ctx, tx, readmodel.PlayerRow{
			ID:            id,
			FirstName:     firstName,
			LastName:      lastName,
			Gender:        "F",
			DateOfBirth:   "2010-05-01",
			LicenseNumber: license,
		}))
		if clubID != "" {
			require.NoError(t, f.store.SetPlayerClub(f.ctx, tx, id, clubID, "2025/2026", "A"))
			require.NoError(t, f.store.AdjustClubPlayerCount(f.ctx, tx, clubID, 1))
		}
	})
}

func TestListClubsAndUserClubs(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Zenith", "u1")
	f.seedClub(t, "c2", "Alpha", "u2")

	clubs, err := f.public.ListClubs(f.ctx)
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Equal(t, "Alpha", clubs[0].Name)

	mine, err := f.public.ListUserClubs(f.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "c1", mine[0].ID)

	_, err = f.public.GetClub(f.ctx, "missing")
	assert.ErrorIs(t, err, query.ErrNotFound)
}

func TestPlayerCard(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Alpha", "u1")
	f.seedPlayer(t, "p1", "c1", "Ann", "Brown", "L1")

	card, err := f.public.GetPlayerCard(f.ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", card.FirstName)
	assert.Equal(t, "Alpha", card.ClubName)
	assert.Equal(t, "L1", card.LicenseNumber)

	_, err = f.public.GetPlayerCard(f.ctx, "missing")
	assert.ErrorIs(t, err, query.ErrNotFound)
}

func TestListPlayersPaginationAndOrdering(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Alpha", "u1")
	f.seedPlayer(t, "p1", "c1", "Zoe", "Young", "L1")
	f.seedPlayer(t, "p2", "c1", "Ann", "Brown", "L2")
	f.seedPlayer(t, "p3", "c1", "Bob", "Brown", "L3")

	page, err := f.club.ListPlayers(f.ctx, "c1", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 0, page.Page)
	// Ordered by last name, then first name.
	assert.Equal(t, "p2", page.Results[0].ID)
	assert.Equal(t, "p3", page.Results[1].ID)

	second, err := f.club.ListPlayers(f.ctx, "c1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Count)
	assert.Equal(t, "p1", second.Results[0].ID)

	empty, err := f.club.ListPlayers(f.ctx, "c1", 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, 3, empty.TotalCount)
}

func TestSearchPlayers(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Alpha", "u1")
	f.seedClub(t, "c2", "Beta", "u2")
	f.seedPlayer(t, "p1", "c1", "Ann", "Brown", "L1")
	f.seedPlayer(t, "p2", "c1", "Bob", "Stone", "XL17")
	f.seedPlayer(t, "p3", "c2", "Annie", "Hill", "L3")

	byName, err := f.club.SearchPlayers(f.ctx, "c1", "aNN", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, byName.Count)
	assert.Equal(t, "p1", byName.Results[0].ID)

	byLicense, err := f.club.SearchPlayers(f.ctx, "c1", "l17", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, byLicense.Count)
	assert.Equal(t, "p2", byLicense.Results[0].ID)

	none, err := f.club.SearchPlayers(f.ctx, "c1", "zzz", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Count)
}

func TestPlayersNotInCollective(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Alpha", "u1")
	f.seedPlayer(t, "p1", "c1", "Ann", "Brown", "")
	f.seedPlayer(t, "p2", "c1", "Bob", "Stone", "")
	f.inTx(t, func(tx *sql.Tx) {
		require.NoError(t, f.store.UpsertCollective(f.ctx, tx, "k1", "c1", "U15", ""))
		added, err := f.store.AddCollectivePlayer(f.ctx, tx, "k1", "p1")
		require.NoError(t, err)
		require.True(t, added)
	})

	page, err := f.club.PlayersNotInCollective(f.ctx, "c1", "k1", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "p2", page.Results[0].ID)
}

func TestTrainingSessionQueries(t *testing.T) {
	f := newFixture(t)
	f.seedClub(t, "c1", "Alpha", "u1")
	f.seedPlayer(t, "p1", "c1", "Ann", "Brown", "")
	f.seedPlayer(t, "p2", "c1", "Bob", "Stone", "")

	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	f.inTx(t, func(tx *sql.Tx) {
		require.NoError(t, f.store.UpsertTrainingSession(f.ctx, tx, "t1", "c1", early, early.Add(2*time.Hour)))
		require.NoError(t, f.store.UpsertTrainingSession(f.ctx, tx, "t2", "c1", late, late.Add(2*time.Hour)))
		require.NoError(t, f.store.SetTrainingSessionPlayerStatus(f.ctx, tx, readmodel.TrainingSessionPlayerRow{
			TrainingSessionID: "t1",
			PlayerID:          "p1",
			Status:            "PRESENT",
		}))
		require.NoError(t, f.store.AdjustTrainingSessionCounter(f.ctx, tx, "t1", "PRESENT", 1))
	})

	page, err := f.club.ListTrainingSessions(f.ctx, "c1", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 2, page.Count)
	// Most recent start time first.
	assert.Equal(t, "t2", page.Results[0].ID)
	assert.Equal(t, "t1", page.Results[1].ID)

	session, players, err := f.club.GetTrainingSession(f.ctx, "c1", "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.NumberOfPlayersPresent)
	require.Len(t, players, 1)
	assert.Equal(t, "p1", players[0].PlayerID)

	unmarked, err := f.club.PlayersWithoutSessionStatus(f.ctx, "c1", "t1", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 1, unmarked.Count)
	assert.Equal(t, "p2", unmarked.Results[0].ID)

	_, _, err = f.club.GetTrainingSession(f.ctx, "c1", "missing")
	assert.ErrorIs(t, err, query.ErrNotFound)
}
