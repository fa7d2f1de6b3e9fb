// Package command provides the command surface and the handlers that mutate
// aggregates through their repositories.
package command

import (
	"time"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
)

// CreateClub creates a new club owned by OwnerID.
type CreateClub struct {
	bus.CommandBase
	Name               string
	RegistrationNumber string
	OwnerID            string
}

func (CreateClub) CommandType() string { return "CreateClub" }

// ChangeClubOwner transfers ownership of a club.
type ChangeClubOwner struct {
	bus.CommandBase
	ClubID     string
	NewOwnerID string
}

func (ChangeClubOwner) CommandType() string { return "ChangeClubOwner" }

// AddCoach registers a user as coach of a club.
type AddCoach struct {
	bus.CommandBase
	ClubID string
	UserID string
}

func (AddCoach) CommandType() string { return "AddCoach" }

// SignUpUser creates a user account for an externally authenticated principal.
type SignUpUser struct {
	bus.CommandBase
	UserID    string
	Name      string
	FirstName string
	LastName  string
	Email     string
}

func (SignUpUser) CommandType() string { return "SignUpUser" }

// UpdateUserName changes a user's names.
type UpdateUserName struct {
	bus.CommandBase
	UserID    string
	Name      string
	FirstName string
	LastName  string
}

func (UpdateUserName) CommandType() string { return "UpdateUserName" }

// UpdateUserEmail changes a user's email address.
type UpdateUserEmail struct {
	bus.CommandBase
	UserID string
	Email  string
}

func (UpdateUserEmail) CommandType() string { return "UpdateUserEmail" }

// RegisterPlayer creates a player and registers them to a club for a season.
// When LicenseNumber is set the federation license is registered first.
type RegisterPlayer struct {
	bus.CommandBase
	ClubID        string
	FirstName     string
	LastName      string
	Gender        domain.Gender
	DateOfBirth   time.Time
	Season        domain.Season
	LicenseNumber string
	LicenseType   domain.LicenseType
}

func (RegisterPlayer) CommandType() string { return "RegisterPlayer" }

// RegisterPlayerToClub registers an existing player to a club. A player
// registered to a different club is implicitly unregistered first.
type RegisterPlayerToClub struct {
	bus.CommandBase
	PlayerID    string
	ClubID      string
	Season      domain.Season
	LicenseType domain.LicenseType
}

func (RegisterPlayerToClub) CommandType() string { return "RegisterPlayerToClub" }

// UnregisterPlayerFromClub removes a player from their current club.
type UnregisterPlayerFromClub struct {
	bus.CommandBase
	PlayerID string
}

func (UnregisterPlayerFromClub) CommandType() string { return "UnregisterPlayerFromClub" }

// CreateCollective creates a collective within a club.
type CreateCollective struct {
	bus.CommandBase
	ClubID      string
	Name        string
	Description string
}

func (CreateCollective) CommandType() string { return "CreateCollective" }

// AddPlayerToCollective adds a player to a collective.
type AddPlayerToCollective struct {
	bus.CommandBase
	CollectiveID string
	PlayerID     string
}

func (AddPlayerToCollective) CommandType() string { return "AddPlayerToCollective" }

// RemovePlayerFromCollective removes a player from a collective.
type RemovePlayerFromCollective struct {
	bus.CommandBase
	CollectiveID string
	PlayerID     string
}

func (RemovePlayerFromCollective) CommandType() string { return "RemovePlayerFromCollective" }

// CreateTrainingSession schedules a training session for a club.
type CreateTrainingSession struct {
	bus.CommandBase
	ClubID    string
	StartTime time.Time
	EndTime   time.Time
}

func (CreateTrainingSession) CommandType() string { return "CreateTrainingSession" }

// CancelTrainingSession cancels a scheduled session.
type CancelTrainingSession struct {
	bus.CommandBase
	ClubID            string
	TrainingSessionID string
	Reason            string
}

func (CancelTrainingSession) CommandType() string { return "CancelTrainingSession" }

// ChangePlayerTrainingSessionStatus records a player's attendance status.
type ChangePlayerTrainingSessionStatus struct {
	bus.CommandBase
	ClubID            string
	TrainingSessionID string
	PlayerID          string
	Status            domain.TrainingStatus
	Reason            string
	WithReason        bool
	ArrivalTime       time.Time
}

func (ChangePlayerTrainingSessionStatus) CommandType() string {
	return "ChangePlayerTrainingSessionStatus"
}

// RemovePlayerFromTrainingSession clears a player's recorded status.
type RemovePlayerFromTrainingSession struct {
	bus.CommandBase
	ClubID            string
	TrainingSessionID string
	PlayerID          string
}

func (RemovePlayerFromTrainingSession) CommandType() string {
	return "RemovePlayerFromTrainingSession"
}
