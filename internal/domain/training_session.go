package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSession is the aggregate for a scheduled training and the attendance
// status of its players.
type TrainingSession struct {
	AggregateRoot

	id        string
	clubID    string
	startTime time.Time
	endTime   time.Time
	cancelled bool
	statuses  map[string]TrainingStatus
}

// TrainingSessionCreateData carries the fields required to schedule a session.
type TrainingSessionCreateData struct {
	ActorID   string
	ClubID    string
	StartTime time.Time
	EndTime   time.Time
}

// TrainingSessionStreamID returns the event stream id for a session id.
func TrainingSessionStreamID(id string) string {
	return "training_session-" + id
}

// NewTrainingSession returns an empty session ready to be loaded from history.
func NewTrainingSession() *TrainingSession {
	t := &TrainingSession{statuses: make(map[string]TrainingStatus)}
	t.Init(t.apply)
	return t
}

// CreateTrainingSession schedules a new session, emitting TrainingSessionCreated.
func CreateTrainingSession(data TrainingSessionCreateData) (*TrainingSession, error) {
	if !data.EndTime.After(data.StartTime) {
		return nil, NewInvalidOperation("training session end time must be after start time")
	}
	t := NewTrainingSession()
	t.ApplyChange(TrainingSessionCreated{
		BaseEvent:         NewBaseEvent(data.ActorID),
		TrainingSessionID: uuid.NewString(),
		ClubID:            data.ClubID,
		StartTime:         data.StartTime,
		EndTime:           data.EndTime,
	})
	return t, nil
}

// ID returns the session id.
func (t *TrainingSession) ID() string { return t.id }

// StreamID returns the session's event stream id.
func (t *TrainingSession) StreamID() string { return TrainingSessionStreamID(t.id) }

// ClubID returns the owning club.
func (t *TrainingSession) ClubID() string { return t.clubID }

// Cancelled reports whether the session has been cancelled.
func (t *TrainingSession) Cancelled() bool { return t.cancelled }

// PlayerStatus returns the recorded status for a player, if any.
func (t *TrainingSession) PlayerStatus(playerID string) (TrainingStatus, bool) {
	s, ok := t.statuses[playerID]
	return s, ok
}

// StatusChange carries the arguments of a player status transition.
type StatusChange struct {
	ActorID     string
	PlayerID    string
	Status      TrainingStatus
	ArrivalTime time.Time
	WithReason  bool
	Reason      string
}

// ChangePlayerStatus records a player's attendance status. The session must
// not be cancelled; LATE requires an arrival time inside the session window.
func (t *TrainingSession) ChangePlayerStatus(change StatusChange) error {
	if t.cancelled {
		return NewInvalidOperation("training session %s is cancelled", t.id)
	}
	if !change.Status.IsValid() {
		return NewInvalidOperation("invalid training status %q", change.Status)
	}

	switch change.Status {
	case TrainingStatusPresent:
		t.ApplyChange(PlayerTrainingSessionStatusChangedToPresent{
			BaseEvent:         NewBaseEvent(change.ActorID),
			TrainingSessionID: t.id,
			ClubID:            t.clubID,
			PlayerID:          change.PlayerID,
		})
	case TrainingStatusAbsent:
		t.ApplyChange(PlayerTrainingSessionStatusChangedToAbsent{
			BaseEvent:         NewBaseEvent(change.ActorID),
			TrainingSessionID: t.id,
			ClubID:            t.clubID,
			PlayerID:          change.PlayerID,
			WithReason:        change.WithReason,
			Reason:            change.Reason,
		})
	case TrainingStatusLate:
		if change.ArrivalTime.Before(t.startTime) || change.ArrivalTime.After(t.endTime) {
			return NewInvalidOperation("arrival time %s outside session window [%s, %s]",
				change.ArrivalTime.Format(time.RFC3339),
				t.startTime.Format(time.RFC3339),
				t.endTime.Format(time.RFC3339))
		}
		t.ApplyChange(PlayerTrainingSessionStatusChangedToLate{
			BaseEvent:         NewBaseEvent(change.ActorID),
			TrainingSessionID: t.id,
			ClubID:            t.clubID,
			PlayerID:          change.PlayerID,
			ArrivalTime:       change.ArrivalTime,
			WithReason:        change.WithReason,
			Reason:            change.Reason,
		})
	}
	return nil
}

// RemovePlayer clears a player's recorded status.
func (t *TrainingSession) RemovePlayer(playerID, actorID string) error {
	if t.cancelled {
		return NewInvalidOperation("training session %s is cancelled", t.id)
	}
	if _, ok := t.statuses[playerID]; !ok {
		return NewInvalidOperation("player %s has no status in training session %s", playerID, t.id)
	}
	t.ApplyChange(PlayerRemovedFromTrainingSession{
		BaseEvent:         NewBaseEvent(actorID),
		TrainingSessionID: t.id,
		ClubID:            t.clubID,
		PlayerID:          playerID,
	})
	return nil
}

// Cancel cancels the session. Cancelling twice fails.
func (t *TrainingSession) Cancel(reason, actorID string) error {
	if t.cancelled {
		return NewInvalidOperation("training session %s already cancelled", t.id)
	}
	t.ApplyChange(TrainingSessionCancelled{
		BaseEvent:         NewBaseEvent(actorID),
		TrainingSessionID: t.id,
		ClubID:            t.clubID,
		Reason:            reason,
	})
	return nil
}

func (t *TrainingSession) apply(event Event) {
	switch e := event.(type) {
	case TrainingSessionCreated:
		t.id = e.TrainingSessionID
		t.clubID = e.ClubID
		t.startTime = e.StartTime
		t.endTime = e.EndTime
	case TrainingSessionCancelled:
		t.cancelled = true
	case PlayerTrainingSessionStatusChangedToPresent:
		t.statuses[e.PlayerID] = TrainingStatusPresent
	case PlayerTrainingSessionStatusChangedToAbsent:
		t.statuses[e.PlayerID] = TrainingStatusAbsent
	case PlayerTrainingSessionStatusChangedToLate:
		t.statuses[e.PlayerID] = TrainingStatusLate
	case PlayerRemovedFromTrainingSession:
		delete(t.statuses, e.PlayerID)
	}
}
