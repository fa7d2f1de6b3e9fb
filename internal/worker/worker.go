package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lvassor/my-club/internal/readmodel"
	"github.com/lvassor/my-club/internal/repository"
	"github.com/lvassor/my-club/internal/ws"
)

// Notifier receives projection-derived notifications after each read-model
// commit. Satisfied by *ws.Manager.
type Notifier interface {
	Notify(n ws.Notification)
}

// Options tune the worker loop.
type Options struct {
	// PollInterval is the sleep between polls when the log is fully consumed.
	PollInterval time.Duration
	// BatchSize bounds how many events one poll fetches.
	BatchSize int
	// RetryLimit is the number of failed attempts on one event before it is
	// treated as poison and skipped.
	RetryLimit int
	// ResetOnBoot wipes and recreates the read-model tables on Run, re-tailing
	// the log from position 0. Production deployments should migrate instead
	// and resume from the stored cursor.
	ResetOnBoot bool
}

// Worker is the single consumer of the global event log. It applies each
// event to the read model in a transaction that also advances the persisted
// cursor, then emits the buffered notifications.
type Worker struct {
	events    repository.EventStore
	readModel *readmodel.Store
	projector *Projector
	notifier  Notifier
	logger    *slog.Logger

	pollInterval time.Duration
	batchSize    int
	retryLimit   int
	resetOnBoot  bool

	position int64
	failures int
}

// New creates a projection worker.
func New(events repository.EventStore, readModel *readmodel.Store, notifier Notifier, logger *slog.Logger, opts Options) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.RetryLimit <= 0 {
		opts.RetryLimit = 5
	}
	return &Worker{
		events:       events,
		readModel:    readModel,
		projector:    NewProjector(readModel, logger),
		notifier:     notifier,
		logger:       logger,
		pollInterval: opts.PollInterval,
		batchSize:    opts.BatchSize,
		retryLimit:   opts.RetryLimit,
		resetOnBoot:  opts.ResetOnBoot,
	}
}

// Position returns the worker's in-memory cursor (next position to project).
func (w *Worker) Position() int64 {
	return w.position
}

// init prepares the read-model schema and loads the persisted cursor.
func (w *Worker) init(ctx context.Context) error {
	if w.resetOnBoot {
		if err := w.readModel.Reset(ctx); err != nil {
			return fmt.Errorf("reset read model: %w", err)
		}
	} else if err := w.readModel.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate read model: %w", err)
	}

	cursor, err := w.readModel.Cursor(ctx)
	if err != nil {
		return err
	}
	w.position = cursor
	return nil
}

// Drain projects until the cursor reaches the current end of the log, then
// returns. Used for one-shot rebuilds and in tests.
func (w *Worker) Drain(ctx context.Context) error {
	if err := w.init(ctx); err != nil {
		return err
	}
	for {
		advanced, err := w.poll(ctx)
		if err != nil {
			return err
		}
		if !advanced {
			return nil
		}
	}
}

// Run tails the log until ctx is cancelled. Shutdown is cooperative: the
// current transaction commits (or rolls back) before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.init(ctx); err != nil {
		return err
	}

	w.logger.Info("projection worker started", "position", w.position)
	defer w.logger.Info("projection worker stopped")

	for {
		advanced, err := w.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("projection poll failed", "error", err, "position", w.position)
		}
		if advanced {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.pollInterval):
		}
	}
}

// poll projects one batch. Returns true when at least one event was consumed,
// so the caller loops again without sleeping.
func (w *Worker) poll(ctx context.Context) (bool, error) {
	end, err := w.events.LastPosition(ctx)
	if err != nil {
		return false, fmt.Errorf("last position: %w", err)
	}
	if end <= w.position {
		return false, nil
	}

	batch, err := w.events.ReadFrom(ctx, w.position, w.batchSize)
	if err != nil {
		return false, fmt.Errorf("read from %d: %w", w.position, err)
	}

	advanced := false
	for _, stored := range batch {
		notifications, err := w.projectOne(ctx, stored)
		if err != nil {
			w.failures++
			if w.failures >= w.retryLimit {
				// Poison event: skip it, advance the cursor in its own
				// transaction, and alert. The alternative (halting) would
				// stall every projection behind one bad event.
				w.logger.Error("poison event skipped",
					"position", stored.Position,
					"event_type", stored.EventType,
					"attempts", w.failures,
					"error", err)
				if skipErr := w.advanceCursor(ctx, stored.Position+1); skipErr != nil {
					return advanced, skipErr
				}
				w.failures = 0
				advanced = true
				continue
			}
			return advanced, fmt.Errorf("project position %d (attempt %d): %w", stored.Position, w.failures, err)
		}
		w.failures = 0
		w.position = stored.Position + 1
		advanced = true

		// Notifications go out only after the commit, so clients never see a
		// ghost update for a transaction that rolled back.
		if w.notifier != nil {
			for _, n := range notifications {
				w.notifier.Notify(n)
			}
		}
	}
	return advanced, nil
}

// projectOne applies one stored event and advances the persisted cursor in the
// same transaction.
func (w *Worker) projectOne(ctx context.Context, stored repository.StoredEvent) ([]ws.Notification, error) {
	event, err := stored.Decode()
	if err != nil {
		return nil, err
	}

	tx, err := w.readModel.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	w.logger.Debug("projecting event",
		"position", stored.Position,
		"event_type", stored.EventType)

	notifications, err := w.projector.Project(ctx, tx, event)
	if err != nil {
		return nil, err
	}
	if err := w.readModel.SaveCursor(ctx, tx, stored.Position+1); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return notifications, nil
}

// advanceCursor persists a new cursor position in its own transaction.
func (w *Worker) advanceCursor(ctx context.Context, position int64) error {
	tx, err := w.readModel.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := w.readModel.SaveCursor(ctx, tx, position); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	w.position = position
	return nil
}
