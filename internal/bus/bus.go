// Package bus provides the in-process message broker: single-consumer command
// dispatch and fan-out publication of integration events, both routed by
// runtime type tag.
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/lvassor/my-club/internal/repository"
)

// Dispatch errors.
var (
	ErrNoHandler     = errors.New("no handler registered for message type")
	ErrMisconfigured = errors.New("more than one handler registered for command type")
	ErrUnauthorized  = errors.New("command not authorized")
)

// CommandHandler processes exactly one kind of command.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// EventHandler reacts to integration events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event IntegrationEvent) error
}

// Authorizer accepts or refuses a command before dispatch.
type Authorizer interface {
	Authorize(ctx context.Context, cmd Command) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, cmd Command) error

// Authorize implements Authorizer.
func (f AuthorizerFunc) Authorize(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// AllowAll is the permissive authorization hook.
var AllowAll = AuthorizerFunc(func(context.Context, Command) error { return nil })

// Options tune command retry behavior.
type Options struct {
	// RetryLimit is the number of retries after a concurrency conflict.
	RetryLimit int
	// RetryBackoff is the base backoff, doubled per attempt with up to 1ms of
	// jitter.
	RetryBackoff time.Duration
}

// Bus is the in-process message broker.
type Bus struct {
	mu              sync.RWMutex
	commandHandlers map[string][]CommandHandler
	eventHandlers   map[string][]EventHandler

	authorizer   Authorizer
	logger       *slog.Logger
	retryLimit   int
	retryBackoff time.Duration
}

// New creates a bus with the given authorization hook.
func New(authorizer Authorizer, logger *slog.Logger, opts Options) *Bus {
	if authorizer == nil {
		authorizer = AllowAll
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RetryLimit <= 0 {
		opts.RetryLimit = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Millisecond
	}
	return &Bus{
		commandHandlers: make(map[string][]CommandHandler),
		eventHandlers:   make(map[string][]EventHandler),
		authorizer:      authorizer,
		logger:          logger,
		retryLimit:      opts.RetryLimit,
		retryBackoff:    opts.RetryBackoff,
	}
}

// RegisterCommandHandler routes a command type tag to its handler. Commands
// are single-consumer: registering two handlers for one tag surfaces as
// ErrMisconfigured on Send.
func (b *Bus) RegisterCommandHandler(commandType string, handler CommandHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commandHandlers[commandType] = append(b.commandHandlers[commandType], handler)
}

// RegisterEventHandler subscribes a handler to an integration event type.
// Handlers run sequentially in registration order.
func (b *Bus) RegisterEventHandler(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eventHandlers[eventType] = append(b.eventHandlers[eventType], handler)
}

// Send dispatches a command to its single handler. Concurrency conflicts are
// retried with exponential backoff; the handler reloads its aggregates on each
// attempt, so a retry observes the winning write.
func (b *Bus) Send(ctx context.Context, cmd Command) error {
	b.mu.RLock()
	handlers := b.commandHandlers[cmd.CommandType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return fmt.Errorf("%w: %s", ErrNoHandler, cmd.CommandType())
	}
	if len(handlers) > 1 {
		return fmt.Errorf("%w: %s", ErrMisconfigured, cmd.CommandType())
	}

	if err := b.authorizer.Authorize(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	handler := handlers[0]
	var err error
	for attempt := 0; ; attempt++ {
		err = handler.Handle(ctx, cmd)
		if err == nil || !errors.Is(err, repository.ErrConcurrencyConflict) {
			return err
		}
		if attempt >= b.retryLimit {
			return err
		}

		backoff := b.retryBackoff << attempt
		backoff += time.Duration(rand.Int63n(int64(time.Millisecond)))
		b.logger.Debug("retrying command after concurrency conflict",
			"command_type", cmd.CommandType(),
			"attempt", attempt+1,
			"backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Publish fans an integration event out to every subscribed handler. Handler
// errors are logged and do not abort the remaining handlers.
func (b *Bus) Publish(ctx context.Context, event IntegrationEvent) {
	b.mu.RLock()
	handlers := b.eventHandlers[event.EventType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			b.logger.Error("integration event handler failed",
				"event_type", event.EventType(),
				"error", err)
		}
	}
}
