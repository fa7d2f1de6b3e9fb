package command

import (
	"context"
	"fmt"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// PlayerHandler processes player registration commands. Registration spans two
// streams: the federation (license uniqueness) saves first, the player second.
type PlayerHandler struct {
	players    *repository.AggregateRepository[*domain.Player]
	clubs      *repository.AggregateRepository[*domain.Club]
	federation *repository.FederationRepository
}

// NewPlayerHandler creates the player command handler.
func NewPlayerHandler(
	players *repository.AggregateRepository[*domain.Player],
	clubs *repository.AggregateRepository[*domain.Club],
	federation *repository.FederationRepository,
) *PlayerHandler {
	return &PlayerHandler{players: players, clubs: clubs, federation: federation}
}

// Handle dispatches player commands.
func (h *PlayerHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case RegisterPlayer:
		return h.registerPlayer(ctx, c)
	case RegisterPlayerToClub:
		return h.registerToClub(ctx, c)
	case UnregisterPlayerFromClub:
		return h.unregisterFromClub(ctx, c)
	default:
		return fmt.Errorf("%w: %s", bus.ErrNoHandler, cmd.CommandType())
	}
}

func (h *PlayerHandler) registerPlayer(ctx context.Context, cmd RegisterPlayer) error {
	if !cmd.Gender.IsValid() {
		return domain.NewInvalidOperation("invalid gender %q", cmd.Gender)
	}
	if _, err := h.clubs.Get(ctx, cmd.ClubID); err != nil {
		return err
	}

	player := domain.RegisterPlayer(domain.PlayerCreateData{
		ActorID:       cmd.Actor(),
		FirstName:     cmd.FirstName,
		LastName:      cmd.LastName,
		Gender:        cmd.Gender,
		DateOfBirth:   cmd.DateOfBirth,
		LicenseNumber: cmd.LicenseNumber,
	})
	if err := player.RegisterToClub(cmd.ClubID, cmd.Season, cmd.LicenseType, cmd.Actor()); err != nil {
		return err
	}

	// The federation holds the license-uniqueness invariant, so it saves
	// first. There is no cross-stream atomicity: if the player save below
	// fails, the license registration stays committed, bound to a player id
	// whose stream was never written. A retried command builds a new player
	// with a fresh id, so the federation refuses the license with
	// InvalidOperation; see DESIGN.md on cross-aggregate atomicity.
	if cmd.LicenseNumber != "" {
		federation, err := h.federation.GetSingleton(ctx)
		if err != nil {
			return err
		}
		expected := federation.Version()
		if err := federation.RegisterPlayerLicense(player.ID(), cmd.LicenseNumber, cmd.LicenseType, cmd.Actor()); err != nil {
			return err
		}
		if err := h.federation.Save(ctx, federation, expected); err != nil {
			return err
		}
	}

	return h.players.Save(ctx, player, domain.NewStreamVersion)
}

func (h *PlayerHandler) registerToClub(ctx context.Context, cmd RegisterPlayerToClub) error {
	if _, err := h.clubs.Get(ctx, cmd.ClubID); err != nil {
		return err
	}
	player, err := h.players.Get(ctx, cmd.PlayerID)
	if err != nil {
		return err
	}
	if err := player.RegisterToClub(cmd.ClubID, cmd.Season, cmd.LicenseType, cmd.Actor()); err != nil {
		return err
	}
	return h.players.Save(ctx, player, player.Version())
}

func (h *PlayerHandler) unregisterFromClub(ctx context.Context, cmd UnregisterPlayerFromClub) error {
	player, err := h.players.Get(ctx, cmd.PlayerID)
	if err != nil {
		return err
	}
	if err := player.UnregisterFromClub(cmd.Actor()); err != nil {
		return err
	}
	return h.players.Save(ctx, player, player.Version())
}
