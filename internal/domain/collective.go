package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Collective is the aggregate for a group of players within a club (a squad,
// an age group, a training group).
type Collective struct {
	AggregateRoot

	id          string
	clubID      string
	name        string
	description string
	players     []string
}

// CollectiveCreateData carries the fields required to create a collective.
type CollectiveCreateData struct {
	ActorID     string
	ClubID      string
	Name        string
	Description string
}

// CollectiveStreamID returns the event stream id for a collective id.
func CollectiveStreamID(id string) string {
	return "collective-" + id
}

// NewCollective returns an empty collective ready to be loaded from history.
func NewCollective() *Collective {
	c := &Collective{}
	c.Init(c.apply)
	return c
}

// CreateCollective creates a new collective, emitting CollectiveCreated.
func CreateCollective(data CollectiveCreateData) *Collective {
	c := NewCollective()
	c.ApplyChange(CollectiveCreated{
		BaseEvent:    NewBaseEvent(data.ActorID),
		CollectiveID: uuid.NewString(),
		ClubID:       data.ClubID,
		Name:         data.Name,
		Description:  data.Description,
	})
	return c
}

// ID returns the collective id.
func (c *Collective) ID() string { return c.id }

// StreamID returns the collective's event stream id.
func (c *Collective) StreamID() string { return CollectiveStreamID(c.id) }

// ClubID returns the owning club.
func (c *Collective) ClubID() string { return c.clubID }

// Players returns the member player ids.
func (c *Collective) Players() []string { return c.players }

// AddPlayer adds a player to the collective. A player can be a member at most
// once.
func (c *Collective) AddPlayer(playerID, actorID string) error {
	if slices.Contains(c.players, playerID) {
		return NewInvalidOperation("player %s already in collective %s", playerID, c.id)
	}
	c.ApplyChange(PlayerAddedToCollective{
		BaseEvent:    NewBaseEvent(actorID),
		CollectiveID: c.id,
		PlayerID:     playerID,
	})
	return nil
}

// RemovePlayer removes a member. Removing a non-member fails.
func (c *Collective) RemovePlayer(playerID, actorID string) error {
	if !slices.Contains(c.players, playerID) {
		return NewInvalidOperation("player %s not in collective %s", playerID, c.id)
	}
	c.ApplyChange(PlayerRemovedFromCollective{
		BaseEvent:    NewBaseEvent(actorID),
		CollectiveID: c.id,
		PlayerID:     playerID,
	})
	return nil
}

func (c *Collective) apply(event Event) {
	switch e := event.(type) {
	case CollectiveCreated:
		c.id = e.CollectiveID
		c.clubID = e.ClubID
		c.name = e.Name
		c.description = e.Description
	case PlayerAddedToCollective:
		c.players = append(c.players, e.PlayerID)
	case PlayerRemovedFromCollective:
		if i := slices.Index(c.players, e.PlayerID); i >= 0 {
			c.players = slices.Delete(c.players, i, i+1)
		}
	}
}
