package domain

// NewStreamVersion is the expected version for a stream that has never been
// persisted.
const NewStreamVersion = -1

// Aggregate is a cluster of state rebuilt from its event stream and mutated
// only through its own methods.
type Aggregate interface {
	// ID returns the aggregate identity.
	ID() string

	// StreamID returns the event stream this aggregate is persisted under.
	StreamID() string

	// Version returns the highest persisted event version, or NewStreamVersion
	// if the aggregate has never been saved.
	Version() int

	// LoadFromHistory folds a stream of committed events into state.
	LoadFromHistory(events []Event)

	// UncommittedChanges returns events recorded since the last commit.
	UncommittedChanges() []Event

	// MarkCommitted clears the uncommitted buffer and advances the version to
	// the last recorded event.
	MarkCommitted()
}

// AggregateRoot implements the bookkeeping half of Aggregate. Concrete
// aggregates embed it and wire their fold function through Init.
//
// Version tracks committed events only: ApplyChange records an event without
// bumping the version, so Version() remains the expected version for an
// optimistic save until MarkCommitted is called.
type AggregateRoot struct {
	version int
	changes []Event
	applier func(Event)
}

// Init sets the fold function and resets the aggregate to the never-persisted
// state. Must be called by every concrete constructor.
func (a *AggregateRoot) Init(applier func(Event)) {
	a.version = NewStreamVersion
	a.changes = nil
	a.applier = applier
}

// Version returns the highest committed event version (-1 if never saved).
func (a *AggregateRoot) Version() int {
	return a.version
}

// LoadFromHistory folds committed events in order; the version ends at
// len(events)-1 and the uncommitted buffer stays empty.
func (a *AggregateRoot) LoadFromHistory(events []Event) {
	for _, e := range events {
		a.applier(e)
		a.version++
	}
}

// ApplyChange applies a newly produced event to state and records it in the
// uncommitted buffer.
func (a *AggregateRoot) ApplyChange(e Event) {
	a.applier(e)
	a.changes = append(a.changes, e)
}

// UncommittedChanges returns events recorded since the last commit.
func (a *AggregateRoot) UncommittedChanges() []Event {
	return a.changes
}

// MarkCommitted clears the uncommitted buffer and fixes the version to the
// last recorded event. The repository calls this after a successful append;
// on a concurrency conflict the buffer is retained so the caller can reload
// and retry.
func (a *AggregateRoot) MarkCommitted() {
	a.version += len(a.changes)
	a.changes = nil
}
