package command

import (
	"context"
	"fmt"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// ClubHandler processes club commands.
type ClubHandler struct {
	clubs *repository.AggregateRepository[*domain.Club]
}

// NewClubHandler creates the club command handler.
func NewClubHandler(clubs *repository.AggregateRepository[*domain.Club]) *ClubHandler {
	return &ClubHandler{clubs: clubs}
}

// Handle dispatches club commands.
func (h *ClubHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case CreateClub:
		return h.createClub(ctx, c)
	case ChangeClubOwner:
		return h.changeOwner(ctx, c)
	case AddCoach:
		return h.addCoach(ctx, c)
	default:
		return fmt.Errorf("%w: %s", bus.ErrNoHandler, cmd.CommandType())
	}
}

func (h *ClubHandler) createClub(ctx context.Context, cmd CreateClub) error {
	club := domain.CreateClub(domain.ClubCreateData{
		ActorID:            cmd.Actor(),
		Name:               cmd.Name,
		RegistrationNumber: cmd.RegistrationNumber,
		OwnerID:            cmd.OwnerID,
	})
	return h.clubs.Save(ctx, club, domain.NewStreamVersion)
}

func (h *ClubHandler) changeOwner(ctx context.Context, cmd ChangeClubOwner) error {
	club, err := h.clubs.Get(ctx, cmd.ClubID)
	if err != nil {
		return err
	}
	if err := club.ChangeOwner(cmd.NewOwnerID, cmd.Actor()); err != nil {
		return err
	}
	return h.clubs.Save(ctx, club, club.Version())
}

func (h *ClubHandler) addCoach(ctx context.Context, cmd AddCoach) error {
	club, err := h.clubs.Get(ctx, cmd.ClubID)
	if err != nil {
		return err
	}
	club.AddCoach(cmd.UserID, cmd.Actor())
	return h.clubs.Save(ctx, club, club.Version())
}
