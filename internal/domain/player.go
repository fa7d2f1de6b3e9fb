package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player is the aggregate for a registered player and their club membership.
type Player struct {
	AggregateRoot

	id            string
	firstName     string
	lastName      string
	gender        Gender
	dateOfBirth   string
	licenseNumber string
	clubID        string
	season        Season
	licenseType   LicenseType
}

// PlayerCreateData carries the fields required to register a player.
type PlayerCreateData struct {
	ActorID       string
	FirstName     string
	LastName      string
	Gender        Gender
	DateOfBirth   time.Time
	LicenseNumber string
}

// PlayerStreamID returns the event stream id for a player id.
func PlayerStreamID(id string) string {
	return "player-" + id
}

// NewPlayer returns an empty player ready to be loaded from history.
func NewPlayer() *Player {
	p := &Player{}
	p.Init(p.apply)
	return p
}

// RegisterPlayer creates a new player identity, emitting PlayerRegistered.
func RegisterPlayer(data PlayerCreateData) *Player {
	p := NewPlayer()
	p.ApplyChange(PlayerRegistered{
		BaseEvent:     NewBaseEvent(data.ActorID),
		PlayerID:      uuid.NewString(),
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		Gender:        data.Gender,
		DateOfBirth:   data.DateOfBirth.Format("2006-01-02"),
		LicenseNumber: data.LicenseNumber,
	})
	return p
}

// ID returns the player id.
func (p *Player) ID() string { return p.id }

// StreamID returns the player's event stream id.
func (p *Player) StreamID() string { return PlayerStreamID(p.id) }

// ClubID returns the club the player is currently registered to, or empty.
func (p *Player) ClubID() string { return p.clubID }

// LicenseNumber returns the player's federation license number, or empty.
func (p *Player) LicenseNumber() string { return p.licenseNumber }

// RegisterToClub registers the player to a club for a season. A player
// registered to a different club is implicitly unregistered first, in the same
// command: both events are recorded in order.
func (p *Player) RegisterToClub(clubID string, season Season, licenseType LicenseType, actorID string) error {
	if p.clubID == clubID {
		return NewInvalidOperation("player %s already registered to club %s", p.id, clubID)
	}
	if p.clubID != "" {
		p.ApplyChange(PlayerUnregisteredFromClub{
			BaseEvent: NewBaseEvent(actorID),
			PlayerID:  p.id,
			ClubID:    p.clubID,
		})
	}
	p.ApplyChange(PlayerRegisteredToClub{
		BaseEvent:   NewBaseEvent(actorID),
		PlayerID:    p.id,
		ClubID:      clubID,
		Season:      season,
		LicenseType: licenseType,
	})
	return nil
}

// UnregisterFromClub removes the player from their current club.
func (p *Player) UnregisterFromClub(actorID string) error {
	if p.clubID == "" {
		return NewInvalidOperation("player %s not registered to any club", p.id)
	}
	p.ApplyChange(PlayerUnregisteredFromClub{
		BaseEvent: NewBaseEvent(actorID),
		PlayerID:  p.id,
		ClubID:    p.clubID,
	})
	return nil
}

func (p *Player) apply(event Event) {
	switch e := event.(type) {
	case PlayerRegistered:
		p.id = e.PlayerID
		p.firstName = e.FirstName
		p.lastName = e.LastName
		p.gender = e.Gender
		p.dateOfBirth = e.DateOfBirth
		p.licenseNumber = e.LicenseNumber
	case PlayerRegisteredToClub:
		p.clubID = e.ClubID
		p.season = e.Season
		p.licenseType = e.LicenseType
	case PlayerUnregisteredFromClub:
		p.clubID = ""
	}
}
