package worker_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/command"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/readmodel"
	"github.com/lvassor/my-club/internal/repository/memory"
	"github.com/lvassor/my-club/internal/worker"
	"github.com/lvassor/my-club/internal/ws"
)

type fakeNotifier struct {
	notifications []ws.Notification
}

func (f *fakeNotifier) Notify(n ws.Notification) {
	f.notifications = append(f.notifications, n)
}

type fixture struct {
	store     *memory.EventStore
	readModel *readmodel.Store
	notifier  *fakeNotifier
	bus       *bus.Bus
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewEventStore()
	readModel, err := readmodel.Open(filepath.Join(t.TempDir(), "readmodel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = readModel.Close() })

	b := bus.New(nil, nil, bus.Options{})
	command.RegisterHandlers(b, store)
	return &fixture{
		store:     store,
		readModel: readModel,
		notifier:  &fakeNotifier{},
		bus:       b,
		ctx:       context.Background(),
	}
}

func (f *fixture) newWorker(opts worker.Options) *worker.Worker {
	return worker.New(f.store, f.readModel, f.notifier, nil, opts)
}

func (f *fixture) createClub(t *testing.T) string {
	t.Helper()
	require.NoError(t, f.bus.Send(f.ctx, command.CreateClub{
		CommandBase: bus.NewCommandBase("u1"),
		Name:        "Alpha",
		OwnerID:     "u1",
	}))
	var clubID string
	f.eachEvent(t, func(event domain.Event) {
		if e, ok := event.(domain.ClubCreated); ok {
			clubID = e.ClubID
		}
	})
	require.NotEmpty(t, clubID)
	return clubID
}

func (f *fixture) registerPlayer(t *testing.T, clubID string) string {
	t.Helper()
	require.NoError(t, f.bus.Send(f.ctx, command.RegisterPlayer{
		CommandBase:   bus.NewCommandBase("u1"),
		ClubID:        clubID,
		FirstName:     "A",
		LastName:      "B",
		Gender:        domain.GenderMale,
		DateOfBirth:   time.Date(2010, 5, 1, 0, 0, 0, 0, time.UTC),
		Season:        "2025/2026",
		LicenseNumber: "L1",
		LicenseType:   domain.LicenseTypeA,
	}))
	var playerID string
	f.eachEvent(t, func(event domain.Event) {
		if e, ok := event.(domain.PlayerRegistered); ok {
			playerID = e.PlayerID
		}
	})
	require.NotEmpty(t, playerID)
	return playerID
}

func (f *fixture) eachEvent(t *testing.T, fn func(domain.Event)) {
	t.Helper()
	all, err := f.store.ReadFrom(f.ctx, 0, 1000)
	require.NoError(t, err)
	for _, stored := range all {
		event, err := stored.Decode()
		require.NoError(t, err)
		fn(event)
	}
}

func (f *fixture) clubRow(t *testing.T, clubID string) (name string, players int) {
	t.Helper()
	err := f.readModel.DB().QueryRow(
		"SELECT name, number_of_players FROM club WHERE id = ?", clubID,
	).Scan(&name, &players)
	require.NoError(t, err)
	return name, players
}

func TestProjectsClubAndPlayer(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t)
	playerID := f.registerPlayer(t, clubID)

	w := f.newWorker(worker.Options{ResetOnBoot: true})
	require.NoError(t, w.Drain(f.ctx))

	name, players := f.clubRow(t, clubID)
	assert.Equal(t, "Alpha", name)
	assert.Equal(t, 1, players)

	var rowClub string
	err := f.readModel.DB().QueryRow(
		"SELECT COALESCE(club_id, '') FROM player WHERE id = ?", playerID,
	).Scan(&rowClub)
	require.NoError(t, err)
	assert.Equal(t, clubID, rowClub)

	// The player registration pushed one notification for the club.
	require.NotEmpty(t, f.notifier.notifications)
	assert.Equal(t, ws.Notification{ClubID: clubID, Type: ws.TypePlayerListUpdated},
		f.notifier.notifications[len(f.notifier.notifications)-1])

	cursor, err := f.readModel.Cursor(f.ctx)
	require.NoError(t, err)
	last, err := f.store.LastPosition(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, last, cursor)
}

func TestWorkerResumesFromCursor(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t)

	w := f.newWorker(worker.Options{ResetOnBoot: true})
	require.NoError(t, w.Drain(f.ctx))
	cursorAfterFirst, err := f.readModel.Cursor(f.ctx)
	require.NoError(t, err)

	// More events arrive while the worker is down.
	f.registerPlayer(t, clubID)

	resumed := f.newWorker(worker.Options{ResetOnBoot: false})
	require.NoError(t, resumed.Drain(f.ctx))

	cursor, err := f.readModel.Cursor(f.ctx)
	require.NoError(t, err)
	last, err := f.store.LastPosition(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, last, cursor)
	assert.Greater(t, cursor, cursorAfterFirst)

	_, players := f.clubRow(t, clubID)
	assert.Equal(t, 1, players)
}

func TestProjectionDeterministicAcrossBatchSizes(t *testing.T) {
	build := func(t *testing.T, batchSize int) (int, int64) {
		f := newFixture(t)
		clubID := f.createClub(t)
		f.registerPlayer(t, clubID)
		require.NoError(t, f.bus.Send(f.ctx, command.CreateCollective{
			CommandBase: bus.NewCommandBase("u1"),
			ClubID:      clubID,
			Name:        "U15",
		}))

		w := f.newWorker(worker.Options{ResetOnBoot: true, BatchSize: batchSize})
		require.NoError(t, w.Drain(f.ctx))

		_, players := f.clubRow(t, clubID)
		cursor, err := f.readModel.Cursor(f.ctx)
		require.NoError(t, err)
		return players, cursor
	}

	playersOne, cursorOne := build(t, 1)
	playersBig, cursorBig := build(t, 64)
	assert.Equal(t, playersOne, playersBig)
	assert.Equal(t, cursorOne, cursorBig)
}

func TestTrainingStatusCounters(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t)
	playerID := f.registerPlayer(t, clubID)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.bus.Send(f.ctx, command.CreateTrainingSession{
		CommandBase: bus.NewCommandBase("u1"),
		ClubID:      clubID,
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	}))
	var sessionID string
	f.eachEvent(t, func(event domain.Event) {
		if e, ok := event.(domain.TrainingSessionCreated); ok {
			sessionID = e.TrainingSessionID
		}
	})

	change := func(status domain.TrainingStatus) {
		require.NoError(t, f.bus.Send(f.ctx, command.ChangePlayerTrainingSessionStatus{
			CommandBase:       bus.NewCommandBase("u1"),
			ClubID:            clubID,
			TrainingSessionID: sessionID,
			PlayerID:          playerID,
			Status:            status,
		}))
	}
	change(domain.TrainingStatusPresent)
	change(domain.TrainingStatusAbsent)

	w := f.newWorker(worker.Options{ResetOnBoot: true})
	require.NoError(t, w.Drain(f.ctx))

	var present, absent, late int
	err := f.readModel.DB().QueryRow(`
		SELECT number_of_players_present, number_of_players_absent, number_of_players_late
		FROM training_session WHERE id = ?`, sessionID,
	).Scan(&present, &absent, &late)
	require.NoError(t, err)
	assert.Equal(t, 0, present)
	assert.Equal(t, 1, absent)
	assert.Equal(t, 0, late)

	var status string
	err = f.readModel.DB().QueryRow(`
		SELECT status FROM training_session_player
		WHERE training_session_id = ? AND player_id = ?`, sessionID, playerID,
	).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "ABSENT", status)
}

// explodingEvent is appendable but has no registered decoder, so projection
// fails deterministically.
type explodingEvent struct {
	domain.BaseEvent
	ClubID string `json:"club_id"`
}

func (explodingEvent) EventType() string     { return "Exploding" }
func (e explodingEvent) AggregateID() string { return e.ClubID }

func TestPoisonEventIsSkippedAfterRetries(t *testing.T) {
	f := newFixture(t)
	clubID := f.createClub(t)
	require.NoError(t, f.store.Append(f.ctx, "poison-1",
		[]domain.Event{explodingEvent{BaseEvent: domain.NewBaseEvent("u1"), ClubID: clubID}}, -1))
	f.registerPlayer(t, clubID)

	// ResetOnBoot stays off so the second drain resumes from the stored
	// cursor instead of replaying the already-projected prefix.
	w := f.newWorker(worker.Options{ResetOnBoot: false, RetryLimit: 2})

	// First drain fails while the event is still retryable.
	err := w.Drain(f.ctx)
	require.Error(t, err)

	// The retry crosses the poison threshold: the event is skipped and the
	// rest of the log projects normally.
	require.NoError(t, w.Drain(f.ctx))

	cursor, err := f.readModel.Cursor(f.ctx)
	require.NoError(t, err)
	last, err := f.store.LastPosition(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, last, cursor)

	_, players := f.clubRow(t, clubID)
	assert.Equal(t, 1, players)
}
