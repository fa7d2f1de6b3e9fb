package command

import (
	"context"
	"fmt"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// TrainingSessionHandler processes training session commands.
type TrainingSessionHandler struct {
	sessions *repository.AggregateRepository[*domain.TrainingSession]
	players  *repository.AggregateRepository[*domain.Player]
}

// NewTrainingSessionHandler creates the training session command handler.
func NewTrainingSessionHandler(
	sessions *repository.AggregateRepository[*domain.TrainingSession],
	players *repository.AggregateRepository[*domain.Player],
) *TrainingSessionHandler {
	return &TrainingSessionHandler{sessions: sessions, players: players}
}

// Handle dispatches training session commands.
func (h *TrainingSessionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case CreateTrainingSession:
		return h.create(ctx, c)
	case CancelTrainingSession:
		return h.cancel(ctx, c)
	case ChangePlayerTrainingSessionStatus:
		return h.changeStatus(ctx, c)
	case RemovePlayerFromTrainingSession:
		return h.removePlayer(ctx, c)
	default:
		return fmt.Errorf("%w: %s", bus.ErrNoHandler, cmd.CommandType())
	}
}

func (h *TrainingSessionHandler) create(ctx context.Context, cmd CreateTrainingSession) error {
	session, err := domain.CreateTrainingSession(domain.TrainingSessionCreateData{
		ActorID:   cmd.Actor(),
		ClubID:    cmd.ClubID,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
	})
	if err != nil {
		return err
	}
	return h.sessions.Save(ctx, session, domain.NewStreamVersion)
}

func (h *TrainingSessionHandler) cancel(ctx context.Context, cmd CancelTrainingSession) error {
	session, err := h.getClubSession(ctx, cmd.TrainingSessionID, cmd.ClubID)
	if err != nil {
		return err
	}
	if err := session.Cancel(cmd.Reason, cmd.Actor()); err != nil {
		return err
	}
	return h.sessions.Save(ctx, session, session.Version())
}

func (h *TrainingSessionHandler) changeStatus(ctx context.Context, cmd ChangePlayerTrainingSessionStatus) error {
	session, err := h.getClubSession(ctx, cmd.TrainingSessionID, cmd.ClubID)
	if err != nil {
		return err
	}
	player, err := h.players.Get(ctx, cmd.PlayerID)
	if err != nil {
		return err
	}
	if player.ClubID() != cmd.ClubID {
		return domain.NewInvalidOperation("player %s is not in club %s", cmd.PlayerID, cmd.ClubID)
	}
	if err := session.ChangePlayerStatus(domain.StatusChange{
		ActorID:     cmd.Actor(),
		PlayerID:    cmd.PlayerID,
		Status:      cmd.Status,
		ArrivalTime: cmd.ArrivalTime,
		WithReason:  cmd.WithReason,
		Reason:      cmd.Reason,
	}); err != nil {
		return err
	}
	return h.sessions.Save(ctx, session, session.Version())
}

func (h *TrainingSessionHandler) removePlayer(ctx context.Context, cmd RemovePlayerFromTrainingSession) error {
	session, err := h.getClubSession(ctx, cmd.TrainingSessionID, cmd.ClubID)
	if err != nil {
		return err
	}
	if err := session.RemovePlayer(cmd.PlayerID, cmd.Actor()); err != nil {
		return err
	}
	return h.sessions.Save(ctx, session, session.Version())
}

// getClubSession loads a session and checks club scoping.
func (h *TrainingSessionHandler) getClubSession(ctx context.Context, sessionID, clubID string) (*domain.TrainingSession, error) {
	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ClubID() != clubID {
		return nil, domain.NewInvalidOperation("training session %s is not in club %s", sessionID, clubID)
	}
	return session, nil
}
