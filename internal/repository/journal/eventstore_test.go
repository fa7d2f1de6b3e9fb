package journal_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
	"github.com/lvassor/my-club/internal/repository/journal"
)

func journalPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "events.json")
}

func coachAdded(clubID, userID string) domain.Event {
	return domain.CoachAdded{BaseEvent: domain.NewBaseEvent("u1"), ClubID: clubID, UserID: userID}
}

func TestJournalAppendAndRestartReplay(t *testing.T) {
	path := journalPath(t)
	ctx := context.Background()

	store, err := journal.NewEventStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "a"), coachAdded("1", "b")}, -1))
	require.NoError(t, store.Append(ctx, "club-2", []domain.Event{coachAdded("2", "c")}, -1))

	// A fresh store over the same file sees the same log.
	reopened, err := journal.NewEventStore(path)
	require.NoError(t, err)

	last, err := reopened.LastPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)

	events, err := reopened.ReadStream(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Version)
	assert.Equal(t, 1, events[1].Version)

	// Appends continue from the replayed version.
	require.NoError(t, reopened.Append(ctx, "club-1", []domain.Event{coachAdded("1", "d")}, 1))
	err = reopened.Append(ctx, "club-1", []domain.Event{coachAdded("1", "e")}, 1)
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
}

func TestJournalFileShape(t *testing.T) {
	path := journalPath(t)
	ctx := context.Background()

	store, err := journal.NewEventStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{coachAdded("1", "a")}, -1))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		EventList []map[string]any            `json:"event_list"`
		Aggregate map[string][]map[string]any `json:"aggregates"`
	}
	require.NoError(t, json.Unmarshal(raw, &file))
	require.Len(t, file.EventList, 1)
	require.Len(t, file.Aggregate["club-1"], 1)

	descriptor := file.EventList[0]
	assert.Equal(t, "club-1", descriptor["id"])
	assert.Equal(t, "CoachAdded", descriptor["event_type"])
	assert.Equal(t, float64(0), descriptor["version"])

	// event_data is a JSON-encoded string of the payload.
	payload, ok := descriptor["event_data"].(string)
	require.True(t, ok)
	var event domain.CoachAdded
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	assert.Equal(t, "a", event.UserID)
}

func TestJournalDecodeRoundTrip(t *testing.T) {
	path := journalPath(t)
	ctx := context.Background()

	store, err := journal.NewEventStore(path)
	require.NoError(t, err)
	original := coachAdded("1", "a")
	require.NoError(t, store.Append(ctx, "club-1", []domain.Event{original}, -1))

	reopened, err := journal.NewEventStore(path)
	require.NoError(t, err)
	stored, err := reopened.ReadStream(ctx, "club-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	decoded, err := stored[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestJournalConcurrencyCheckOnEmptyStream(t *testing.T) {
	store, err := journal.NewEventStore(journalPath(t))
	require.NoError(t, err)

	err = store.Append(context.Background(), "club-1", []domain.Event{coachAdded("1", "a")}, 0)
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
}
