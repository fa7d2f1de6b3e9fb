package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Club is the aggregate for a sports club: ownership and coaching staff.
type Club struct {
	AggregateRoot

	id                 string
	name               string
	registrationNumber string
	ownerID            string
	coaches            []string
}

// ClubCreateData carries the fields required to create a club.
type ClubCreateData struct {
	ActorID            string
	Name               string
	RegistrationNumber string
	OwnerID            string
}

// ClubStreamID returns the event stream id for a club id.
func ClubStreamID(id string) string {
	return "club-" + id
}

// NewClub returns an empty club ready to be loaded from history.
func NewClub() *Club {
	c := &Club{}
	c.Init(c.apply)
	return c
}

// CreateClub creates a new club, emitting ClubCreated.
func CreateClub(data ClubCreateData) *Club {
	c := NewClub()
	c.ApplyChange(ClubCreated{
		BaseEvent:          NewBaseEvent(data.ActorID),
		ClubID:             uuid.NewString(),
		Name:               data.Name,
		RegistrationNumber: data.RegistrationNumber,
		OwnerID:            data.OwnerID,
	})
	return c
}

// ID returns the club id.
func (c *Club) ID() string { return c.id }

// StreamID returns the club's event stream id.
func (c *Club) StreamID() string { return ClubStreamID(c.id) }

// Name returns the club name.
func (c *Club) Name() string { return c.name }

// OwnerID returns the current owner.
func (c *Club) OwnerID() string { return c.ownerID }

// Coaches returns the user ids coaching this club.
func (c *Club) Coaches() []string { return c.coaches }

// ChangeOwner transfers ownership. The new owner must differ from the current
// one.
func (c *Club) ChangeOwner(newOwnerID, actorID string) error {
	if newOwnerID == c.ownerID {
		return NewInvalidOperation("user %s already owns club %s", newOwnerID, c.id)
	}
	c.ApplyChange(ClubOwnerChanged{
		BaseEvent:  NewBaseEvent(actorID),
		ClubID:     c.id,
		NewOwnerID: newOwnerID,
	})
	return nil
}

// AddCoach registers a user as coach. Adding an existing coach is a no-op.
func (c *Club) AddCoach(userID, actorID string) {
	if slices.Contains(c.coaches, userID) {
		return
	}
	c.ApplyChange(CoachAdded{
		BaseEvent: NewBaseEvent(actorID),
		ClubID:    c.id,
		UserID:    userID,
	})
}

func (c *Club) apply(event Event) {
	switch e := event.(type) {
	case ClubCreated:
		c.id = e.ClubID
		c.name = e.Name
		c.registrationNumber = e.RegistrationNumber
		c.ownerID = e.OwnerID
	case ClubOwnerChanged:
		c.ownerID = e.NewOwnerID
	case CoachAdded:
		c.coaches = append(c.coaches, e.UserID)
	}
}
