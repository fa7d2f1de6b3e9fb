// Package memory provides in-memory implementations of repository interfaces
// for testing and development.
package memory

import (
	"context"
	"sync"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// EventStore is an in-memory implementation of repository.EventStore.
type EventStore struct {
	mu      sync.RWMutex
	log     []repository.StoredEvent
	streams map[string][]repository.StoredEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		streams: make(map[string][]repository.StoredEvent),
	}
}

// Append adds events to a stream with optimistic concurrency control. The
// store mutex serializes the read-compare-append sequence, so concurrent
// appends to the same stream with the same expected version cannot both
// succeed.
func (s *EventStore) Append(ctx context.Context, streamID string, events []domain.Event, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	currentVersion := len(stream) - 1
	if currentVersion != expectedVersion {
		return repository.ErrConcurrencyConflict
	}

	for i, event := range events {
		stored, err := repository.EncodeEvent(streamID, event, expectedVersion+1+i, int64(len(s.log)))
		if err != nil {
			return err
		}
		s.log = append(s.log, stored)
		s.streams[streamID] = append(s.streams[streamID], stored)
	}
	return nil
}

// ReadStream reads all events for one stream in version order.
func (s *EventStore) ReadStream(ctx context.Context, streamID string) ([]repository.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	result := make([]repository.StoredEvent, len(stream))
	copy(result, stream)
	return result, nil
}

// LastPosition returns the number of entries in the global log.
func (s *EventStore) LastPosition(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.log)), nil
}

// ReadFrom reads events whose global position is >= position, in position
// order, up to limit.
func (s *EventStore) ReadFrom(ctx context.Context, position int64, limit int) ([]repository.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if position < 0 {
		position = 0
	}
	if position >= int64(len(s.log)) {
		return nil, nil
	}
	end := position + int64(limit)
	if limit <= 0 || end > int64(len(s.log)) {
		end = int64(len(s.log))
	}
	result := make([]repository.StoredEvent, end-position)
	copy(result, s.log[position:end])
	return result, nil
}

// Reset clears all data (useful for tests).
func (s *EventStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
	s.streams = make(map[string][]repository.StoredEvent)
}
