// Package repository provides event-store access and aggregate repositories.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lvassor/my-club/internal/domain"
)

// Common errors for event store operations.
var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: expected version mismatch")
	ErrAggregateNotFound   = errors.New("aggregate not found")
)

// EventStore provides append-only storage for domain events with a global
// ordered read surface for projections.
type EventStore interface {
	// Append adds events to a stream with optimistic concurrency control.
	// Returns ErrConcurrencyConflict if expectedVersion doesn't match the
	// stream's current version. Use expectedVersion=-1 for new streams.
	// The append is atomic: either all events become visible in both the
	// stream and the global log, or none do.
	Append(ctx context.Context, streamID string, events []domain.Event, expectedVersion int) error

	// ReadStream reads all events for one stream in version order. A missing
	// stream yields an empty slice.
	ReadStream(ctx context.Context, streamID string) ([]StoredEvent, error)

	// LastPosition returns the number of entries ever appended to the global
	// log.
	LastPosition(ctx context.Context) (int64, error)

	// ReadFrom reads events whose global position is >= position, in position
	// order, up to limit.
	ReadFrom(ctx context.Context, position int64, limit int) ([]StoredEvent, error)
}

// StoredEvent is the storage envelope wrapping a serialized domain event.
// Versions are per-stream and start at 0; positions are global and start at 0.
type StoredEvent struct {
	StreamID  string          `json:"id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"event_data"`
	Version   int             `json:"version"`
	Position  int64           `json:"-"`
}

// Decode deserializes the stored payload into its domain event.
func (e *StoredEvent) Decode() (domain.Event, error) {
	decode, ok := eventTypes[e.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", e.EventType)
	}
	return decode(e.Data)
}

// EncodeEvent creates a StoredEvent from a domain event. Version and position
// assignment belong to the store; callers never supply them.
func EncodeEvent(streamID string, event domain.Event, version int, position int64) (StoredEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	return StoredEvent{
		StreamID:  streamID,
		EventType: event.EventType(),
		Data:      data,
		Version:   version,
		Position:  position,
	}, nil
}

type eventDecoder func(data []byte) (domain.Event, error)

// eventTypes maps stable event type tags to decoders. The registry is filled
// at init time; stores consult it when reconstituting events.
var eventTypes = map[string]eventDecoder{}

// registerEventType registers the decoder for one concrete event type, keyed
// by the tag its zero value reports.
func registerEventType[T domain.Event]() {
	var zero T
	eventTypes[zero.EventType()] = func(data []byte) (domain.Event, error) {
		var e T
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", zero.EventType(), err)
		}
		return e, nil
	}
}

func init() {
	registerEventType[domain.ClubCreated]()
	registerEventType[domain.ClubOwnerChanged]()
	registerEventType[domain.CoachAdded]()
	registerEventType[domain.UserSignedUp]()
	registerEventType[domain.UserNameUpdated]()
	registerEventType[domain.UserEmailUpdated]()
	registerEventType[domain.PlayerRegistered]()
	registerEventType[domain.PlayerRegisteredToClub]()
	registerEventType[domain.PlayerUnregisteredFromClub]()
	registerEventType[domain.PlayerLicenseRegistered]()
	registerEventType[domain.CollectiveCreated]()
	registerEventType[domain.PlayerAddedToCollective]()
	registerEventType[domain.PlayerRemovedFromCollective]()
	registerEventType[domain.TrainingSessionCreated]()
	registerEventType[domain.TrainingSessionCancelled]()
	registerEventType[domain.PlayerTrainingSessionStatusChangedToPresent]()
	registerEventType[domain.PlayerTrainingSessionStatusChangedToAbsent]()
	registerEventType[domain.PlayerTrainingSessionStatusChangedToLate]()
	registerEventType[domain.PlayerRemovedFromTrainingSession]()
}

// DecodeAll decodes a batch of stored events, preserving order.
func DecodeAll(stored []StoredEvent) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(stored))
	for i := range stored {
		e, err := stored[i].Decode()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
