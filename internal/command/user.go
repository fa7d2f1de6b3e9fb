package command

import (
	"context"
	"fmt"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/repository"
)

// UserHandler processes user commands.
type UserHandler struct {
	users *repository.AggregateRepository[*domain.User]
}

// NewUserHandler creates the user command handler.
func NewUserHandler(users *repository.AggregateRepository[*domain.User]) *UserHandler {
	return &UserHandler{users: users}
}

// Handle dispatches user commands.
func (h *UserHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case SignUpUser:
		return h.signUp(ctx, c)
	case UpdateUserName:
		return h.updateName(ctx, c)
	case UpdateUserEmail:
		return h.updateEmail(ctx, c)
	default:
		return fmt.Errorf("%w: %s", bus.ErrNoHandler, cmd.CommandType())
	}
}

func (h *UserHandler) signUp(ctx context.Context, cmd SignUpUser) error {
	user := domain.SignUpUser(domain.UserCreateData{
		UserID:    cmd.UserID,
		ActorID:   cmd.Actor(),
		Name:      cmd.Name,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
	})
	return h.users.Save(ctx, user, domain.NewStreamVersion)
}

func (h *UserHandler) updateName(ctx context.Context, cmd UpdateUserName) error {
	user, err := h.users.Get(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	user.UpdateName(cmd.FirstName, cmd.LastName, cmd.Name, cmd.Actor())
	return h.users.Save(ctx, user, user.Version())
}

func (h *UserHandler) updateEmail(ctx context.Context, cmd UpdateUserEmail) error {
	user, err := h.users.Get(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	user.UpdateEmail(cmd.Email, cmd.Actor())
	return h.users.Save(ctx, user, user.Version())
}
