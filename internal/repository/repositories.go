package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lvassor/my-club/internal/domain"
)

// AggregateRepository adapts one aggregate kind to the event store: load by
// id, save with an expected version.
type AggregateRepository[T domain.Aggregate] struct {
	store    EventStore
	newFn    func() T
	streamID func(id string) string
}

// NewAggregateRepository creates a repository for one aggregate kind. newFn
// returns an empty aggregate ready to fold history; streamID maps an aggregate
// id to its stream id.
func NewAggregateRepository[T domain.Aggregate](store EventStore, newFn func() T, streamID func(id string) string) *AggregateRepository[T] {
	return &AggregateRepository[T]{store: store, newFn: newFn, streamID: streamID}
}

// Get loads an aggregate by id, folding its full stream. Returns
// ErrAggregateNotFound for an empty stream.
func (r *AggregateRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	stored, err := r.store.ReadStream(ctx, r.streamID(id))
	if err != nil {
		return zero, fmt.Errorf("read stream %s: %w", r.streamID(id), err)
	}
	if len(stored) == 0 {
		return zero, fmt.Errorf("%w: %s", ErrAggregateNotFound, r.streamID(id))
	}
	events, err := DecodeAll(stored)
	if err != nil {
		return zero, err
	}
	agg := r.newFn()
	agg.LoadFromHistory(events)
	return agg, nil
}

// GetOrNew loads an aggregate by id, or returns a fresh never-persisted
// instance when the stream is empty. Used for singleton streams where the
// first command creates the aggregate with expectedVersion=-1.
func (r *AggregateRepository[T]) GetOrNew(ctx context.Context, id string) (T, error) {
	agg, err := r.Get(ctx, id)
	if errors.Is(err, ErrAggregateNotFound) {
		return r.newFn(), nil
	}
	return agg, err
}

// Save appends the aggregate's uncommitted changes with the supplied expected
// version, then marks them committed. On ErrConcurrencyConflict the buffer is
// retained so the caller may reload and retry.
func (r *AggregateRepository[T]) Save(ctx context.Context, agg T, expectedVersion int) error {
	changes := agg.UncommittedChanges()
	if len(changes) == 0 {
		return nil
	}
	if err := r.store.Append(ctx, agg.StreamID(), changes, expectedVersion); err != nil {
		return err
	}
	agg.MarkCommitted()
	return nil
}

// NewClubRepository creates the repository for Club aggregates.
func NewClubRepository(store EventStore) *AggregateRepository[*domain.Club] {
	return NewAggregateRepository(store, domain.NewClub, domain.ClubStreamID)
}

// NewCollectiveRepository creates the repository for Collective aggregates.
func NewCollectiveRepository(store EventStore) *AggregateRepository[*domain.Collective] {
	return NewAggregateRepository(store, domain.NewCollective, domain.CollectiveStreamID)
}

// NewPlayerRepository creates the repository for Player aggregates.
func NewPlayerRepository(store EventStore) *AggregateRepository[*domain.Player] {
	return NewAggregateRepository(store, domain.NewPlayer, domain.PlayerStreamID)
}

// NewTrainingSessionRepository creates the repository for TrainingSession aggregates.
func NewTrainingSessionRepository(store EventStore) *AggregateRepository[*domain.TrainingSession] {
	return NewAggregateRepository(store, domain.NewTrainingSession, domain.TrainingSessionStreamID)
}

// NewUserRepository creates the repository for User aggregates.
func NewUserRepository(store EventStore) *AggregateRepository[*domain.User] {
	return NewAggregateRepository(store, domain.NewUser, domain.UserStreamID)
}

// FederationRepository wraps the generic repository with singleton access: the
// federation lives under one fixed stream id.
type FederationRepository struct {
	*AggregateRepository[*domain.Federation]
}

// NewFederationRepository creates the repository for the Federation singleton.
func NewFederationRepository(store EventStore) *FederationRepository {
	return &FederationRepository{NewAggregateRepository(store, domain.NewFederation, func(string) string {
		return domain.FederationID
	})}
}

// GetSingleton loads the federation, or returns a fresh instance when no
// events have been recorded yet.
func (r *FederationRepository) GetSingleton(ctx context.Context) (*domain.Federation, error) {
	return r.GetOrNew(ctx, domain.FederationID)
}
