package command

import (
	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/repository"
)

// RegisterHandlers wires every command handler into the bus. Handlers are
// constructed here and passed their repositories explicitly.
func RegisterHandlers(b *bus.Bus, store repository.EventStore) {
	clubs := repository.NewClubRepository(store)
	users := repository.NewUserRepository(store)
	players := repository.NewPlayerRepository(store)
	collectives := repository.NewCollectiveRepository(store)
	sessions := repository.NewTrainingSessionRepository(store)
	federation := repository.NewFederationRepository(store)

	clubHandler := NewClubHandler(clubs)
	b.RegisterCommandHandler(CreateClub{}.CommandType(), clubHandler)
	b.RegisterCommandHandler(ChangeClubOwner{}.CommandType(), clubHandler)
	b.RegisterCommandHandler(AddCoach{}.CommandType(), clubHandler)

	userHandler := NewUserHandler(users)
	b.RegisterCommandHandler(SignUpUser{}.CommandType(), userHandler)
	b.RegisterCommandHandler(UpdateUserName{}.CommandType(), userHandler)
	b.RegisterCommandHandler(UpdateUserEmail{}.CommandType(), userHandler)

	playerHandler := NewPlayerHandler(players, clubs, federation)
	b.RegisterCommandHandler(RegisterPlayer{}.CommandType(), playerHandler)
	b.RegisterCommandHandler(RegisterPlayerToClub{}.CommandType(), playerHandler)
	b.RegisterCommandHandler(UnregisterPlayerFromClub{}.CommandType(), playerHandler)

	collectiveHandler := NewCollectiveHandler(collectives, clubs, players)
	b.RegisterCommandHandler(CreateCollective{}.CommandType(), collectiveHandler)
	b.RegisterCommandHandler(AddPlayerToCollective{}.CommandType(), collectiveHandler)
	b.RegisterCommandHandler(RemovePlayerFromCollective{}.CommandType(), collectiveHandler)

	sessionHandler := NewTrainingSessionHandler(sessions, players)
	b.RegisterCommandHandler(CreateTrainingSession{}.CommandType(), sessionHandler)
	b.RegisterCommandHandler(CancelTrainingSession{}.CommandType(), sessionHandler)
	b.RegisterCommandHandler(ChangePlayerTrainingSessionStatus{}.CommandType(), sessionHandler)
	b.RegisterCommandHandler(RemovePlayerFromTrainingSession{}.CommandType(), sessionHandler)
}
