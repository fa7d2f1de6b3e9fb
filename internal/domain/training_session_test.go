package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/domain"
)

var (
	sessionStart = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	sessionEnd   = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func newSession(t *testing.T) *domain.TrainingSession {
	t.Helper()
	session, err := domain.CreateTrainingSession(domain.TrainingSessionCreateData{
		ActorID:   "u1",
		ClubID:    "c1",
		StartTime: sessionStart,
		EndTime:   sessionEnd,
	})
	require.NoError(t, err)
	return session
}

func TestCreateTrainingSessionValidatesWindow(t *testing.T) {
	_, err := domain.CreateTrainingSession(domain.TrainingSessionCreateData{
		ActorID:   "u1",
		ClubID:    "c1",
		StartTime: sessionEnd,
		EndTime:   sessionStart,
	})
	assert.True(t, domain.IsInvalidOperation(err))
}

func TestChangePlayerStatus(t *testing.T) {
	session := newSession(t)

	require.NoError(t, session.ChangePlayerStatus(domain.StatusChange{
		ActorID: "u1", PlayerID: "p1", Status: domain.TrainingStatusPresent,
	}))
	status, ok := session.PlayerStatus("p1")
	require.True(t, ok)
	assert.Equal(t, domain.TrainingStatusPresent, status)

	require.NoError(t, session.ChangePlayerStatus(domain.StatusChange{
		ActorID: "u1", PlayerID: "p1", Status: domain.TrainingStatusAbsent,
		WithReason: true, Reason: "sick",
	}))
	status, _ = session.PlayerStatus("p1")
	assert.Equal(t, domain.TrainingStatusAbsent, status)
}

func TestLateRequiresArrivalInsideWindow(t *testing.T) {
	session := newSession(t)

	err := session.ChangePlayerStatus(domain.StatusChange{
		ActorID:     "u1",
		PlayerID:    "p1",
		Status:      domain.TrainingStatusLate,
		ArrivalTime: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	})
	assert.True(t, domain.IsInvalidOperation(err))
	_, ok := session.PlayerStatus("p1")
	assert.False(t, ok)

	require.NoError(t, session.ChangePlayerStatus(domain.StatusChange{
		ActorID:     "u1",
		PlayerID:    "p1",
		Status:      domain.TrainingStatusLate,
		ArrivalTime: time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC),
	}))
	status, _ := session.PlayerStatus("p1")
	assert.Equal(t, domain.TrainingStatusLate, status)
}

func TestCancelledSessionRefusesTransitions(t *testing.T) {
	session := newSession(t)
	require.NoError(t, session.Cancel("storm", "u1"))
	assert.True(t, session.Cancelled())

	err := session.ChangePlayerStatus(domain.StatusChange{
		ActorID: "u1", PlayerID: "p1", Status: domain.TrainingStatusPresent,
	})
	assert.True(t, domain.IsInvalidOperation(err))

	err = session.Cancel("again", "u1")
	assert.True(t, domain.IsInvalidOperation(err))
}

func TestRemovePlayerRequiresStatus(t *testing.T) {
	session := newSession(t)

	err := session.RemovePlayer("p1", "u1")
	assert.True(t, domain.IsInvalidOperation(err))

	require.NoError(t, session.ChangePlayerStatus(domain.StatusChange{
		ActorID: "u1", PlayerID: "p1", Status: domain.TrainingStatusPresent,
	}))
	require.NoError(t, session.RemovePlayer("p1", "u1"))
	_, ok := session.PlayerStatus("p1")
	assert.False(t, ok)
}
