package readmodel

import "time"

// UserRow is a row of the "user" table.
type UserRow struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
}

// ClubRow is a row of the club table.
type ClubRow struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	OwnerID            string `json:"owner_id,omitempty"`
	NumberOfPlayers    int    `json:"number_of_players"`
}

// CollectiveRow is a row of the collective table.
type CollectiveRow struct {
	ID              string `json:"id"`
	ClubID          string `json:"club_id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	NumberOfPlayers int    `json:"number_of_players"`
}

// PlayerRow is a row of the player table.
type PlayerRow struct {
	ID            string `json:"id"`
	ClubID        string `json:"club_id,omitempty"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"`
	Season        string `json:"season,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`
	LicenseType   string `json:"license_type,omitempty"`
}

// TrainingSessionRow is a row of the training_session table.
type TrainingSessionRow struct {
	ID                     string    `json:"id"`
	ClubID                 string    `json:"club_id"`
	StartTime              time.Time `json:"start_time"`
	EndTime                time.Time `json:"end_time"`
	Cancelled              bool      `json:"cancelled"`
	NumberOfPlayersPresent int       `json:"number_of_players_present"`
	NumberOfPlayersAbsent  int       `json:"number_of_players_absent"`
	NumberOfPlayersLate    int       `json:"number_of_players_late"`
}

// TrainingSessionPlayerRow is a row of the training_session_player table.
type TrainingSessionPlayerRow struct {
	TrainingSessionID string     `json:"training_session_id"`
	PlayerID          string     `json:"player_id"`
	Status            string     `json:"status"`
	ArrivalTime       *time.Time `json:"arrival_time,omitempty"`
	WithReason        bool       `json:"with_reason"`
	Reason            string     `json:"reason,omitempty"`
}
