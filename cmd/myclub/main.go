// Package main is the entry point for the my-club backend.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lvassor/my-club/internal/api"
	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/command"
	"github.com/lvassor/my-club/internal/config"
	"github.com/lvassor/my-club/internal/query"
	"github.com/lvassor/my-club/internal/readmodel"
	"github.com/lvassor/my-club/internal/repository"
	"github.com/lvassor/my-club/internal/repository/journal"
	sqlitestore "github.com/lvassor/my-club/internal/repository/sqlite"
	"github.com/lvassor/my-club/internal/session"
	"github.com/lvassor/my-club/internal/worker"
	"github.com/lvassor/my-club/internal/ws"
)

// Build-time variables injected by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServer(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("my-club %s (commit: %s, built: %s)\n", version, commit, date)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`My Club - sports club management backend

Usage:
  myclub <command>

Commands:
  serve     Start the HTTP server and the projection worker
  version   Show version information
  help      Show this help message

Environment Variables:
  EVENT_JOURNAL_PATH         Event journal path (default: ./myclub-events.json)
  READ_MODEL_URL             Read model: PostgreSQL URL or SQLite path
  RESET_READ_MODEL           Re-project the read model on boot (default: true)
  WORKER_POLL_INTERVAL_MS    Worker poll interval (default: 1000)
  PROJECTION_BATCH_SIZE      Events per projection batch (default: 64)
  COMMAND_RETRY_LIMIT        Retries after concurrency conflicts (default: 3)
  COMMAND_RETRY_BACKOFF_MS   Base retry backoff (default: 1)
  PORT                       HTTP server port (default: 8080)
  LOG_LEVEL                  Log level: debug, info, warn, error (default: info)
  LOG_FORMAT                 Log format: text, json (default: text)`)
}

func runServer() error {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Event store: the JSON journal is the reference persistence; a SQLite
	// store can be selected instead through EVENT_STORE_URL.
	var eventStore repository.EventStore
	if cfg.EventStoreURL != "" {
		db, err := sql.Open("sqlite3", cfg.EventStoreURL)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		eventStore, err = sqlitestore.NewEventStore(db)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
	} else {
		store, err := journal.NewEventStore(cfg.EventJournalPath)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		eventStore = store
	}

	// Read model.
	readModel, err := readmodel.Open(cfg.ReadModelURL)
	if err != nil {
		return fmt.Errorf("open read model: %w", err)
	}
	defer readModel.Close()

	// Fan-out registry and command bus; everything is wired explicitly here.
	manager := ws.NewManager(logger)
	messageBus := bus.New(bus.AllowAll, logger, bus.Options{
		RetryLimit:   cfg.CommandRetryLimit,
		RetryBackoff: time.Duration(cfg.CommandRetryBackoffMs) * time.Millisecond,
	})
	command.RegisterHandlers(messageBus, eventStore)

	projectionWorker := worker.New(eventStore, readModel, manager, logger, worker.Options{
		PollInterval: time.Duration(cfg.WorkerPollIntervalMs) * time.Millisecond,
		BatchSize:    cfg.ProjectionBatchSize,
		ResetOnBoot:  cfg.ResetReadModel,
	})

	sessions := session.NewStore()
	server := api.NewServer(cfg,
		messageBus,
		sessions,
		query.NewPublicQueries(readModel),
		query.NewClubQueries(readModel),
		ws.NewHandler(manager, logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return projectionWorker.Run(ctx)
	})
	group.Go(func() error {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
