package command

import (
	"context"
	"fmt"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// CollectiveHandler processes collective commands.
type CollectiveHandler struct {
	collectives *repository.AggregateRepository[*domain.Collective]
	clubs       *repository.AggregateRepository[*domain.Club]
	players     *repository.AggregateRepository[*domain.Player]
}

// NewCollectiveHandler creates the collective command handler.
func NewCollectiveHandler(
	collectives *repository.AggregateRepository[*domain.Collective],
	clubs *repository.AggregateRepository[*domain.Club],
	players *repository.AggregateRepository[*domain.Player],
) *CollectiveHandler {
	return &CollectiveHandler{collectives: collectives, clubs: clubs, players: players}
}

// Handle dispatches collective commands.
func (h *CollectiveHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case CreateCollective:
		return h.create(ctx, c)
	case AddPlayerToCollective:
		return h.addPlayer(ctx, c)
	case RemovePlayerFromCollective:
		return h.removePlayer(ctx, c)
	default:
		return fmt.Errorf("%w: %s", bus.ErrNoHandler, cmd.CommandType())
	}
}

func (h *CollectiveHandler) create(ctx context.Context, cmd CreateCollective) error {
	if _, err := h.clubs.Get(ctx, cmd.ClubID); err != nil {
		return err
	}
	collective := domain.CreateCollective(domain.CollectiveCreateData{
		ActorID:     cmd.Actor(),
		ClubID:      cmd.ClubID,
		Name:        cmd.Name,
		Description: cmd.Description,
	})
	return h.collectives.Save(ctx, collective, domain.NewStreamVersion)
}

func (h *CollectiveHandler) addPlayer(ctx context.Context, cmd AddPlayerToCollective) error {
	collective, err := h.collectives.Get(ctx, cmd.CollectiveID)
	if err != nil {
		return err
	}
	if _, err := h.players.Get(ctx, cmd.PlayerID); err != nil {
		return err
	}
	if err := collective.AddPlayer(cmd.PlayerID, cmd.Actor()); err != nil {
		return err
	}
	return h.collectives.Save(ctx, collective, collective.Version())
}

func (h *CollectiveHandler) removePlayer(ctx context.Context, cmd RemovePlayerFromCollective) error {
	collective, err := h.collectives.Get(ctx, cmd.CollectiveID)
	if err != nil {
		return err
	}
	if err := collective.RemovePlayer(cmd.PlayerID, cmd.Actor()); err != nil {
		return err
	}
	return h.collectives.Save(ctx, collective, collective.Version())
}
