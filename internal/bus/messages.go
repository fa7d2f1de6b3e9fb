package bus

import (
	"time"

	"github.com/segmentio/ksuid"
)

// Command is an imperative message with exactly one handler.
type Command interface {
	// CommandType returns the stable type tag used for routing.
	CommandType() string
	// Actor returns the id of the authenticated principal issuing the command.
	Actor() string
}

// CommandBase carries the fields common to every command.
type CommandBase struct {
	ActorID   string    `json:"actor_id"`
	CommandID string    `json:"command_id"`
	Date      time.Time `json:"date"`
}

// Actor returns the issuing principal's id.
func (c CommandBase) Actor() string {
	return c.ActorID
}

// NewCommandBase stamps a command with a fresh id and the current time.
func NewCommandBase(actorID string) CommandBase {
	return CommandBase{
		ActorID:   actorID,
		CommandID: ksuid.New().String(),
		Date:      time.Now().UTC(),
	}
}

// IntegrationEvent is a declarative message fanned out to zero or more
// handlers. Distinct from domain events: integration events are republished on
// the bus and never persisted in the event store.
type IntegrationEvent interface {
	// EventType returns the stable type tag used for routing.
	EventType() string
}

// IntegrationEventBase carries the fields common to every integration event.
type IntegrationEventBase struct {
	EventID     string    `json:"event_id"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// NewIntegrationEventBase stamps an event with a fresh id and the current time.
func NewIntegrationEventBase() IntegrationEventBase {
	return IntegrationEventBase{
		EventID:     ksuid.New().String(),
		TriggeredAt: time.Now().UTC(),
	}
}
