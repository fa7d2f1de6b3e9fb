package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lvassor/my-club/internal/readmodel"
)

// ErrNotFound is returned when a requested row doesn't exist.
var ErrNotFound = errors.New("not found")

// PublicQueries is the cross-tenant read facade.
type PublicQueries struct {
	store *readmodel.Store
}

// NewPublicQueries creates the public read facade.
func NewPublicQueries(store *readmodel.Store) *PublicQueries {
	return &PublicQueries{store: store}
}

// PlayerCard is a player's public card.
type PlayerCard struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"`
	LicenseNumber string `json:"license_number,omitempty"`
	LicenseType   string `json:"license_type,omitempty"`
	ClubID        string `json:"club_id,omitempty"`
	ClubName      string `json:"club_name,omitempty"`
	Season        string `json:"season,omitempty"`
}

// ListClubs returns every club, ordered by name.
func (q *PublicQueries) ListClubs(ctx context.Context) ([]readmodel.ClubRow, error) {
	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(`
		SELECT id, name, COALESCE(registration_number, ''), COALESCE(owner_id, ''), number_of_players
		FROM club
		ORDER BY name ASC
	`))
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()
	return scanClubs(rows)
}

// GetClub returns one club by id.
func (q *PublicQueries) GetClub(ctx context.Context, clubID string) (*readmodel.ClubRow, error) {
	var club readmodel.ClubRow
	err := q.store.DB().QueryRowContext(ctx, q.store.Rebind(`
		SELECT id, name, COALESCE(registration_number, ''), COALESCE(owner_id, ''), number_of_players
		FROM club
		WHERE id = ?
	`), clubID).Scan(&club.ID, &club.Name, &club.RegistrationNumber, &club.OwnerID, &club.NumberOfPlayers)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return &club, nil
}

// ListUserClubs returns the clubs a user owns, ordered by name.
func (q *PublicQueries) ListUserClubs(ctx context.Context, userID string) ([]readmodel.ClubRow, error) {
	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(`
		SELECT id, name, COALESCE(registration_number, ''), COALESCE(owner_id, ''), number_of_players
		FROM club
		WHERE owner_id = ?
		ORDER BY name ASC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list user clubs: %w", err)
	}
	defer rows.Close()
	return scanClubs(rows)
}

// GetPlayerCard returns a player's public card, including their current club
// name when registered.
func (q *PublicQueries) GetPlayerCard(ctx context.Context, playerID string) (*PlayerCard, error) {
	var card PlayerCard
	err := q.store.DB().QueryRowContext(ctx, q.store.Rebind(`
		SELECT p.id, p.first_name, p.last_name, p.gender, p.date_of_birth,
			COALESCE(p.license_number, ''), COALESCE(p.license_type, ''),
			COALESCE(p.club_id, ''), COALESCE(c.name, ''), COALESCE(p.season, '')
		FROM player p
		LEFT JOIN club c ON c.id = p.club_id
		WHERE p.id = ?
	`), playerID).Scan(
		&card.ID, &card.FirstName, &card.LastName, &card.Gender, &card.DateOfBirth,
		&card.LicenseNumber, &card.LicenseType, &card.ClubID, &card.ClubName, &card.Season,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get player card: %w", err)
	}
	return &card, nil
}

func scanClubs(rows *sql.Rows) ([]readmodel.ClubRow, error) {
	var clubs []readmodel.ClubRow
	for rows.Next() {
		var club readmodel.ClubRow
		if err := rows.Scan(&club.ID, &club.Name, &club.RegistrationNumber, &club.OwnerID, &club.NumberOfPlayers); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, club)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clubs, nil
}
