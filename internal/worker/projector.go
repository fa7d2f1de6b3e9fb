// Package worker tails the global event log and maintains the relational read
// model, advancing a persisted cursor atomically with each applied event.
package worker

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/readmodel"
	"github.com/lvassor/my-club/internal/ws"
)

// Projector applies domain events to the read model. Each handler runs inside
// the worker's transaction and returns the notifications to push once that
// transaction commits.
type Projector struct {
	store  *readmodel.Store
	logger *slog.Logger
}

// NewProjector creates a projector over the read-model store.
func NewProjector(store *readmodel.Store, logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{store: store, logger: logger}
}

// Project applies one event. Events with no projection rule are skipped:
// the read model only materializes what the facades serve.
func (p *Projector) Project(ctx context.Context, tx *sql.Tx, event domain.Event) ([]ws.Notification, error) {
	switch e := event.(type) {
	case domain.ClubCreated:
		return nil, p.store.UpsertClub(ctx, tx, e.ClubID, e.Name, e.RegistrationNumber, e.OwnerID)
	case domain.ClubOwnerChanged:
		return nil, p.store.SetClubOwner(ctx, tx, e.ClubID, e.NewOwnerID)
	case domain.UserSignedUp:
		return nil, p.store.UpsertUser(ctx, tx, readmodel.UserRow{
			ID:        e.UserID,
			Email:     e.Email,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Name:      e.Name,
		})
	case domain.UserNameUpdated:
		return nil, p.store.UpdateUserName(ctx, tx, e.UserID, e.FirstName, e.LastName, e.Name)
	case domain.UserEmailUpdated:
		return nil, p.store.UpdateUserEmail(ctx, tx, e.UserID, e.Email)
	case domain.PlayerRegistered:
		return nil, p.store.UpsertPlayer(ctx, tx, readmodel.PlayerRow{
			ID:            e.PlayerID,
			FirstName:     e.FirstName,
			LastName:      e.LastName,
			Gender:        string(e.Gender),
			DateOfBirth:   e.DateOfBirth,
			LicenseNumber: e.LicenseNumber,
		})
	case domain.PlayerRegisteredToClub:
		return p.playerRegisteredToClub(ctx, tx, e)
	case domain.PlayerUnregisteredFromClub:
		return p.playerUnregisteredFromClub(ctx, tx, e)
	case domain.CollectiveCreated:
		if err := p.store.UpsertCollective(ctx, tx, e.CollectiveID, e.ClubID, e.Name, e.Description); err != nil {
			return nil, err
		}
		return []ws.Notification{{ClubID: e.ClubID, Type: ws.TypeCollectiveListUpdated}}, nil
	case domain.PlayerAddedToCollective:
		return p.playerAddedToCollective(ctx, tx, e)
	case domain.PlayerRemovedFromCollective:
		return p.playerRemovedFromCollective(ctx, tx, e)
	case domain.TrainingSessionCreated:
		if err := p.store.UpsertTrainingSession(ctx, tx, e.TrainingSessionID, e.ClubID, e.StartTime, e.EndTime); err != nil {
			return nil, err
		}
		return []ws.Notification{{ClubID: e.ClubID, Type: ws.TypeTrainingSessionListUpdated}}, nil
	case domain.TrainingSessionCancelled:
		if err := p.store.MarkTrainingSessionCancelled(ctx, tx, e.TrainingSessionID); err != nil {
			return nil, err
		}
		return sessionNotifications(e.ClubID), nil
	case domain.PlayerTrainingSessionStatusChangedToPresent:
		return p.statusChanged(ctx, tx, readmodel.TrainingSessionPlayerRow{
			TrainingSessionID: e.TrainingSessionID,
			PlayerID:          e.PlayerID,
			Status:            string(domain.TrainingStatusPresent),
		}, e.ClubID)
	case domain.PlayerTrainingSessionStatusChangedToAbsent:
		return p.statusChanged(ctx, tx, readmodel.TrainingSessionPlayerRow{
			TrainingSessionID: e.TrainingSessionID,
			PlayerID:          e.PlayerID,
			Status:            string(domain.TrainingStatusAbsent),
			WithReason:        e.WithReason,
			Reason:            e.Reason,
		}, e.ClubID)
	case domain.PlayerTrainingSessionStatusChangedToLate:
		arrival := e.ArrivalTime
		return p.statusChanged(ctx, tx, readmodel.TrainingSessionPlayerRow{
			TrainingSessionID: e.TrainingSessionID,
			PlayerID:          e.PlayerID,
			Status:            string(domain.TrainingStatusLate),
			ArrivalTime:       &arrival,
			WithReason:        e.WithReason,
			Reason:            e.Reason,
		}, e.ClubID)
	case domain.PlayerRemovedFromTrainingSession:
		return p.playerRemovedFromSession(ctx, tx, e)
	default:
		p.logger.Debug("event not projected", "event_type", event.EventType())
		return nil, nil
	}
}

func (p *Projector) playerRegisteredToClub(ctx context.Context, tx *sql.Tx, e domain.PlayerRegisteredToClub) ([]ws.Notification, error) {
	if err := p.store.SetPlayerClub(ctx, tx, e.PlayerID, e.ClubID, string(e.Season), string(e.LicenseType)); err != nil {
		return nil, err
	}
	if err := p.store.AdjustClubPlayerCount(ctx, tx, e.ClubID, 1); err != nil {
		return nil, err
	}
	return []ws.Notification{{ClubID: e.ClubID, Type: ws.TypePlayerListUpdated}}, nil
}

func (p *Projector) playerUnregisteredFromClub(ctx context.Context, tx *sql.Tx, e domain.PlayerUnregisteredFromClub) ([]ws.Notification, error) {
	if err := p.store.ClearPlayerClub(ctx, tx, e.PlayerID); err != nil {
		return nil, err
	}
	if err := p.store.AdjustClubPlayerCount(ctx, tx, e.ClubID, -1); err != nil {
		return nil, err
	}
	return []ws.Notification{{ClubID: e.ClubID, Type: ws.TypePlayerListUpdated}}, nil
}

func (p *Projector) playerAddedToCollective(ctx context.Context, tx *sql.Tx, e domain.PlayerAddedToCollective) ([]ws.Notification, error) {
	added, err := p.store.AddCollectivePlayer(ctx, tx, e.CollectiveID, e.PlayerID)
	if err != nil {
		return nil, err
	}
	if added {
		if err := p.store.AdjustCollectivePlayerCount(ctx, tx, e.CollectiveID, 1); err != nil {
			return nil, err
		}
	}
	clubID, err := p.store.CollectiveClubID(ctx, tx, e.CollectiveID)
	if err != nil || clubID == "" {
		return nil, err
	}
	return []ws.Notification{{ClubID: clubID, Type: ws.TypeCollectiveListUpdated}}, nil
}

func (p *Projector) playerRemovedFromCollective(ctx context.Context, tx *sql.Tx, e domain.PlayerRemovedFromCollective) ([]ws.Notification, error) {
	removed, err := p.store.RemoveCollectivePlayer(ctx, tx, e.CollectiveID, e.PlayerID)
	if err != nil {
		return nil, err
	}
	if removed {
		if err := p.store.AdjustCollectivePlayerCount(ctx, tx, e.CollectiveID, -1); err != nil {
			return nil, err
		}
	}
	clubID, err := p.store.CollectiveClubID(ctx, tx, e.CollectiveID)
	if err != nil || clubID == "" {
		return nil, err
	}
	return []ws.Notification{{ClubID: clubID, Type: ws.TypeCollectiveListUpdated}}, nil
}

func (p *Projector) statusChanged(ctx context.Context, tx *sql.Tx, row readmodel.TrainingSessionPlayerRow, clubID string) ([]ws.Notification, error) {
	prior, err := p.store.TrainingSessionPlayerStatus(ctx, tx, row.TrainingSessionID, row.PlayerID)
	if err != nil {
		return nil, err
	}
	if prior == row.Status {
		return sessionNotifications(clubID), nil
	}
	if err := p.store.SetTrainingSessionPlayerStatus(ctx, tx, row); err != nil {
		return nil, err
	}
	if err := p.store.AdjustTrainingSessionCounter(ctx, tx, row.TrainingSessionID, prior, -1); err != nil {
		return nil, err
	}
	if err := p.store.AdjustTrainingSessionCounter(ctx, tx, row.TrainingSessionID, row.Status, 1); err != nil {
		return nil, err
	}
	return sessionNotifications(clubID), nil
}

func (p *Projector) playerRemovedFromSession(ctx context.Context, tx *sql.Tx, e domain.PlayerRemovedFromTrainingSession) ([]ws.Notification, error) {
	prior, err := p.store.RemoveTrainingSessionPlayer(ctx, tx, e.TrainingSessionID, e.PlayerID)
	if err != nil {
		return nil, err
	}
	if prior != "" {
		if err := p.store.AdjustTrainingSessionCounter(ctx, tx, e.TrainingSessionID, prior, -1); err != nil {
			return nil, err
		}
	}
	return sessionNotifications(e.ClubID), nil
}

func sessionNotifications(clubID string) []ws.Notification {
	return []ws.Notification{
		{ClubID: clubID, Type: ws.TypeTrainingSessionUpdated},
		{ClubID: clubID, Type: ws.TypeTrainingSessionListUpdated},
	}
}
