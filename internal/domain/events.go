package domain

import (
	"time"

	"github.com/segmentio/ksuid"
)

// Event represents a domain event.
type Event interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
	Actor() string
}

// BaseEvent contains common event fields.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Timestamp time.Time `json:"triggered_at"`
	ActorID   string    `json:"actor_id"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// Actor returns the id of the principal that caused the event.
func (e BaseEvent) Actor() string {
	return e.ActorID
}

// NewBaseEvent creates a new base event with generated id and current timestamp.
func NewBaseEvent(actorID string) BaseEvent {
	return BaseEvent{
		ID:        ksuid.New().String(),
		Timestamp: time.Now().UTC(),
		ActorID:   actorID,
	}
}

// ClubCreated is emitted when a new club is created.
type ClubCreated struct {
	BaseEvent
	ClubID             string `json:"club_id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	OwnerID            string `json:"owner_id"`
}

func (e ClubCreated) EventType() string   { return "ClubCreated" }
func (e ClubCreated) AggregateID() string { return e.ClubID }

// ClubOwnerChanged is emitted when club ownership is transferred.
type ClubOwnerChanged struct {
	BaseEvent
	ClubID     string `json:"club_id"`
	NewOwnerID string `json:"new_owner_id"`
}

func (e ClubOwnerChanged) EventType() string   { return "ClubOwnerChanged" }
func (e ClubOwnerChanged) AggregateID() string { return e.ClubID }

// CoachAdded is emitted when a user becomes a coach of a club.
type CoachAdded struct {
	BaseEvent
	ClubID string `json:"club_id"`
	UserID string `json:"user_id"`
}

func (e CoachAdded) EventType() string   { return "CoachAdded" }
func (e CoachAdded) AggregateID() string { return e.ClubID }

// UserSignedUp is emitted when a user account is created.
type UserSignedUp struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (e UserSignedUp) EventType() string   { return "UserSignedUp" }
func (e UserSignedUp) AggregateID() string { return e.UserID }

// UserNameUpdated is emitted when a user changes their display name.
type UserNameUpdated struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (e UserNameUpdated) EventType() string   { return "UserNameUpdated" }
func (e UserNameUpdated) AggregateID() string { return e.UserID }

// UserEmailUpdated is emitted when a user changes their email address.
type UserEmailUpdated struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (e UserEmailUpdated) EventType() string   { return "UserEmailUpdated" }
func (e UserEmailUpdated) AggregateID() string { return e.UserID }

// PlayerRegistered is emitted when a player identity is created.
type PlayerRegistered struct {
	BaseEvent
	PlayerID      string `json:"player_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        Gender `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"`
	LicenseNumber string `json:"license_number,omitempty"`
}

func (e PlayerRegistered) EventType() string   { return "PlayerRegistered" }
func (e PlayerRegistered) AggregateID() string { return e.PlayerID }

// PlayerRegisteredToClub is emitted when a player joins a club for a season.
type PlayerRegisteredToClub struct {
	BaseEvent
	PlayerID    string      `json:"player_id"`
	ClubID      string      `json:"club_id"`
	Season      Season      `json:"season"`
	LicenseType LicenseType `json:"license_type"`
}

func (e PlayerRegisteredToClub) EventType() string   { return "PlayerRegisteredToClub" }
func (e PlayerRegisteredToClub) AggregateID() string { return e.PlayerID }

// PlayerUnregisteredFromClub is emitted when a player leaves a club.
type PlayerUnregisteredFromClub struct {
	BaseEvent
	PlayerID string `json:"player_id"`
	ClubID   string `json:"club_id"`
}

func (e PlayerUnregisteredFromClub) EventType() string   { return "PlayerUnregisteredFromClub" }
func (e PlayerUnregisteredFromClub) AggregateID() string { return e.PlayerID }

// PlayerLicenseRegistered is emitted by the federation when a license number is
// bound to a player.
type PlayerLicenseRegistered struct {
	BaseEvent
	PlayerID      string      `json:"player_id"`
	LicenseNumber string      `json:"license_number"`
	LicenseType   LicenseType `json:"license_type"`
}

func (e PlayerLicenseRegistered) EventType() string   { return "PlayerLicenseRegistered" }
func (e PlayerLicenseRegistered) AggregateID() string { return FederationID }

// CollectiveCreated is emitted when a collective is created within a club.
type CollectiveCreated struct {
	BaseEvent
	CollectiveID string `json:"collective_id"`
	ClubID       string `json:"club_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

func (e CollectiveCreated) EventType() string   { return "CollectiveCreated" }
func (e CollectiveCreated) AggregateID() string { return e.CollectiveID }

// PlayerAddedToCollective is emitted when a player joins a collective.
type PlayerAddedToCollective struct {
	BaseEvent
	CollectiveID string `json:"collective_id"`
	PlayerID     string `json:"player_id"`
}

func (e PlayerAddedToCollective) EventType() string   { return "PlayerAddedToCollective" }
func (e PlayerAddedToCollective) AggregateID() string { return e.CollectiveID }

// PlayerRemovedFromCollective is emitted when a player leaves a collective.
type PlayerRemovedFromCollective struct {
	BaseEvent
	CollectiveID string `json:"collective_id"`
	PlayerID     string `json:"player_id"`
}

func (e PlayerRemovedFromCollective) EventType() string   { return "PlayerRemovedFromCollective" }
func (e PlayerRemovedFromCollective) AggregateID() string { return e.CollectiveID }

// TrainingSessionCreated is emitted when a training session is scheduled.
type TrainingSessionCreated struct {
	BaseEvent
	TrainingSessionID string    `json:"training_session_id"`
	ClubID            string    `json:"club_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
}

func (e TrainingSessionCreated) EventType() string   { return "TrainingSessionCreated" }
func (e TrainingSessionCreated) AggregateID() string { return e.TrainingSessionID }

// TrainingSessionCancelled is emitted when a training session is cancelled.
// Cancellation is terminal: no further status changes are accepted.
type TrainingSessionCancelled struct {
	BaseEvent
	TrainingSessionID string `json:"training_session_id"`
	ClubID            string `json:"club_id"`
	Reason            string `json:"reason,omitempty"`
}

func (e TrainingSessionCancelled) EventType() string   { return "TrainingSessionCancelled" }
func (e TrainingSessionCancelled) AggregateID() string { return e.TrainingSessionID }

// PlayerTrainingSessionStatusChangedToPresent marks a player present.
type PlayerTrainingSessionStatusChangedToPresent struct {
	BaseEvent
	TrainingSessionID string `json:"training_session_id"`
	ClubID            string `json:"club_id"`
	PlayerID          string `json:"player_id"`
}

func (e PlayerTrainingSessionStatusChangedToPresent) EventType() string {
	return "PlayerTrainingSessionStatusChangedToPresent"
}
func (e PlayerTrainingSessionStatusChangedToPresent) AggregateID() string {
	return e.TrainingSessionID
}

// PlayerTrainingSessionStatusChangedToAbsent marks a player absent, optionally
// with a reason.
type PlayerTrainingSessionStatusChangedToAbsent struct {
	BaseEvent
	TrainingSessionID string `json:"training_session_id"`
	ClubID            string `json:"club_id"`
	PlayerID          string `json:"player_id"`
	WithReason        bool   `json:"with_reason"`
	Reason            string `json:"reason,omitempty"`
}

func (e PlayerTrainingSessionStatusChangedToAbsent) EventType() string {
	return "PlayerTrainingSessionStatusChangedToAbsent"
}
func (e PlayerTrainingSessionStatusChangedToAbsent) AggregateID() string {
	return e.TrainingSessionID
}

// PlayerTrainingSessionStatusChangedToLate marks a player late with an arrival
// time inside the session window.
type PlayerTrainingSessionStatusChangedToLate struct {
	BaseEvent
	TrainingSessionID string    `json:"training_session_id"`
	ClubID            string    `json:"club_id"`
	PlayerID          string    `json:"player_id"`
	ArrivalTime       time.Time `json:"arrival_time"`
	WithReason        bool      `json:"with_reason"`
	Reason            string    `json:"reason,omitempty"`
}

func (e PlayerTrainingSessionStatusChangedToLate) EventType() string {
	return "PlayerTrainingSessionStatusChangedToLate"
}
func (e PlayerTrainingSessionStatusChangedToLate) AggregateID() string {
	return e.TrainingSessionID
}

// PlayerRemovedFromTrainingSession clears a player's recorded status for a session.
type PlayerRemovedFromTrainingSession struct {
	BaseEvent
	TrainingSessionID string `json:"training_session_id"`
	ClubID            string `json:"club_id"`
	PlayerID          string `json:"player_id"`
}

func (e PlayerRemovedFromTrainingSession) EventType() string {
	return "PlayerRemovedFromTrainingSession"
}
func (e PlayerRemovedFromTrainingSession) AggregateID() string { return e.TrainingSessionID }
