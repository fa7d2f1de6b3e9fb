// Package journal provides a JSON-journal-file implementation of the event
// store. The whole log lives in one file: a top-level object with an ordered
// "event_list" (the global log) and an "aggregates" map of per-stream
// descriptor lists. Restart replays the file into in-memory indices.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// descriptor is the on-disk envelope. event_data holds the JSON-encoded
// payload as a string; id holds the owning stream id. The shape is fixed:
// existing journals must stay readable.
type descriptor struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	EventData string `json:"event_data"`
	Version   int    `json:"version"`
}

type journalFile struct {
	EventList  []descriptor            `json:"event_list"`
	Aggregates map[string][]descriptor `json:"aggregates"`
}

// EventStore is a journal-file implementation of repository.EventStore.
type EventStore struct {
	path string

	mu      sync.RWMutex
	db      journalFile
	log     []repository.StoredEvent
	streams map[string][]repository.StoredEvent
}

// NewEventStore opens (or creates) the journal at path and replays it into
// memory.
func NewEventStore(path string) (*EventStore, error) {
	s := &EventStore{
		path:    path,
		db:      journalFile{Aggregates: make(map[string][]descriptor)},
		streams: make(map[string][]repository.StoredEvent),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load journal %s: %w", path, err)
	}
	return s, nil
}

func (s *EventStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.persist()
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.db); err != nil {
		return fmt.Errorf("decode journal: %w", err)
	}
	if s.db.Aggregates == nil {
		s.db.Aggregates = make(map[string][]descriptor)
	}

	// Rebuild the in-memory indices. Global positions are implied by the
	// order of event_list.
	for i, d := range s.db.EventList {
		stored := repository.StoredEvent{
			StreamID:  d.ID,
			EventType: d.EventType,
			Data:      json.RawMessage(d.EventData),
			Version:   d.Version,
			Position:  int64(i),
		}
		s.log = append(s.log, stored)
		s.streams[d.ID] = append(s.streams[d.ID], stored)
	}
	return nil
}

// persist rewrites the journal file. The write goes through a temp file and a
// rename so a crash mid-write cannot truncate an existing journal.
func (s *EventStore) persist() error {
	data, err := json.Marshal(s.db)
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".journal-*")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Append adds events to a stream with optimistic concurrency control. Either
// the whole batch is made durable or, on any error, nothing is: the in-memory
// state is only updated after the file write succeeds.
func (s *EventStore) Append(ctx context.Context, streamID string, events []domain.Event, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	currentVersion := len(stream) - 1
	if currentVersion != expectedVersion {
		return repository.ErrConcurrencyConflict
	}

	newStored := make([]repository.StoredEvent, 0, len(events))
	newDescs := make([]descriptor, 0, len(events))
	for i, event := range events {
		stored, err := repository.EncodeEvent(streamID, event, expectedVersion+1+i, int64(len(s.log)+i))
		if err != nil {
			return err
		}
		newStored = append(newStored, stored)
		newDescs = append(newDescs, descriptor{
			ID:        streamID,
			EventType: stored.EventType,
			EventData: string(stored.Data),
			Version:   stored.Version,
		})
	}

	// Stage the new state, persist, then commit it in memory.
	s.db.EventList = append(s.db.EventList, newDescs...)
	s.db.Aggregates[streamID] = append(s.db.Aggregates[streamID], newDescs...)
	if err := s.persist(); err != nil {
		s.db.EventList = s.db.EventList[:len(s.db.EventList)-len(newDescs)]
		s.db.Aggregates[streamID] = s.db.Aggregates[streamID][:len(s.db.Aggregates[streamID])-len(newDescs)]
		if len(s.db.Aggregates[streamID]) == 0 {
			delete(s.db.Aggregates, streamID)
		}
		return err
	}
	s.log = append(s.log, newStored...)
	s.streams[streamID] = append(s.streams[streamID], newStored...)
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
