package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lvassor/my-club/internal/readmodel"
)

// ClubQueries is the club-scoped read facade. Every method filters by club id.
type ClubQueries struct {
	store *readmodel.Store
}

// NewClubQueries creates the club-scoped read facade.
func NewClubQueries(store *readmodel.Store) *ClubQueries {
	return &ClubQueries{store: store}
}

const playerColumns = `id, COALESCE(club_id, ''), first_name, last_name, gender, date_of_birth,
	COALESCE(season, ''), COALESCE(license_number, ''), COALESCE(license_type, '')`

// ListCollectives returns a club's collectives, ordered by name.
func (q *ClubQueries) ListCollectives(ctx context.Context, clubID string) ([]readmodel.CollectiveRow, error) {
	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(`
		SELECT id, club_id, name, COALESCE(description, ''), number_of_players
		FROM collective
		WHERE club_id = ?
		ORDER BY name ASC
	`), clubID)
	if err != nil {
		return nil, fmt.Errorf("list collectives: %w", err)
	}
	defer rows.Close()

	var collectives []readmodel.CollectiveRow
	for rows.Next() {
		var c readmodel.CollectiveRow
		if err := rows.Scan(&c.ID, &c.ClubID, &c.Name, &c.Description, &c.NumberOfPlayers); err != nil {
			return nil, fmt.Errorf("scan collective: %w", err)
		}
		collectives = append(collectives, c)
	}
	return collectives, rows.Err()
}

// ListPlayers returns one page of a club's players, ordered by last name then
// first name.
func (q *ClubQueries) ListPlayers(ctx context.Context, clubID string, page, perPage int) (Page[readmodel.PlayerRow], error) {
	page, perPage = normalizePaging(page, perPage)
	where := "WHERE club_id = ?"
	return q.playerPage(ctx, where, []any{clubID}, page, perPage)
}

// SearchPlayers returns a club's players whose first name, last name, or
// license number contains the search term (case-insensitive).
func (q *ClubQueries) SearchPlayers(ctx context.Context, clubID, term string, page, perPage int) (Page[readmodel.PlayerRow], error) {
	page, perPage = normalizePaging(page, perPage)
	pattern := "%" + term + "%"
	where := `WHERE club_id = ? AND (
		LOWER(first_name) LIKE LOWER(?) OR
		LOWER(last_name) LIKE LOWER(?) OR
		LOWER(COALESCE(license_number, '')) LIKE LOWER(?))`
	return q.playerPage(ctx, where, []any{clubID, pattern, pattern, pattern}, page, perPage)
}

// PlayersNotInCollective returns the club's players that are not members of
// the given collective.
func (q *ClubQueries) PlayersNotInCollective(ctx context.Context, clubID, collectiveID string, page, perPage int) (Page[readmodel.PlayerRow], error) {
	page, perPage = normalizePaging(page, perPage)
	where := `WHERE club_id = ? AND id NOT IN (
		SELECT player_id FROM collective_player WHERE collective_id = ?)`
	return q.playerPage(ctx, where, []any{clubID, collectiveID}, page, perPage)
}

// PlayersWithoutSessionStatus returns the club's players with no recorded
// status for the given training session.
func (q *ClubQueries) PlayersWithoutSessionStatus(ctx context.Context, clubID, sessionID string, page, perPage int) (Page[readmodel.PlayerRow], error) {
	page, perPage = normalizePaging(page, perPage)
	where := `WHERE club_id = ? AND id NOT IN (
		SELECT player_id FROM training_session_player WHERE training_session_id = ?)`
	return q.playerPage(ctx, where, []any{clubID, sessionID}, page, perPage)
}

func (q *ClubQueries) playerPage(ctx context.Context, where string, args []any, page, perPage int) (Page[readmodel.PlayerRow], error) {
	var total int
	err := q.store.DB().QueryRowContext(ctx,
		q.store.Rebind("SELECT COUNT(*) FROM player "+where), args...,
	).Scan(&total)
	if err != nil {
		return Page[readmodel.PlayerRow]{}, fmt.Errorf("count players: %w", err)
	}

	queryArgs := append(append([]any{}, args...), perPage, page*perPage)
	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(
		"SELECT "+playerColumns+" FROM player "+where+`
		ORDER BY last_name ASC, first_name ASC
		LIMIT ? OFFSET ?`,
	), queryArgs...)
	if err != nil {
		return Page[readmodel.PlayerRow]{}, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []readmodel.PlayerRow
	for rows.Next() {
		var p readmodel.PlayerRow
		if err := rows.Scan(&p.ID, &p.ClubID, &p.FirstName, &p.LastName, &p.Gender,
			&p.DateOfBirth, &p.Season, &p.LicenseNumber, &p.LicenseType); err != nil {
			return Page[readmodel.PlayerRow]{}, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return Page[readmodel.PlayerRow]{}, err
	}
	return NewPage(players, total, page, perPage), nil
}

// ListTrainingSessions returns one page of a club's sessions, most recent
// start time first.
func (q *ClubQueries) ListTrainingSessions(ctx context.Context, clubID string, page, perPage int) (Page[readmodel.TrainingSessionRow], error) {
	page, perPage = normalizePaging(page, perPage)

	var total int
	err := q.store.DB().QueryRowContext(ctx,
		q.store.Rebind("SELECT COUNT(*) FROM training_session WHERE club_id = ?"), clubID,
	).Scan(&total)
	if err != nil {
		return Page[readmodel.TrainingSessionRow]{}, fmt.Errorf("count training sessions: %w", err)
	}

	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(`
		SELECT id, club_id, start_time, end_time, cancelled,
			number_of_players_present, number_of_players_absent, number_of_players_late
		FROM training_session
		WHERE club_id = ?
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`), clubID, perPage, page*perPage)
	if err != nil {
		return Page[readmodel.TrainingSessionRow]{}, fmt.Errorf("list training sessions: %w", err)
	}
	defer rows.Close()

	var sessions []readmodel.TrainingSessionRow
	for rows.Next() {
		session, err := scanTrainingSession(rows)
		if err != nil {
			return Page[readmodel.TrainingSessionRow]{}, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return Page[readmodel.TrainingSessionRow]{}, err
	}
	return NewPage(sessions, total, page, perPage), nil
}

// GetTrainingSession returns one session of a club with its player statuses.
func (q *ClubQueries) GetTrainingSession(ctx context.Context, clubID, sessionID string) (*readmodel.TrainingSessionRow, []readmodel.TrainingSessionPlayerRow, error) {
	row := q.store.DB().QueryRowContext(ctx, q.store.Rebind(`
		SELECT id, club_id, start_time, end_time, cancelled,
			number_of_players_present, number_of_players_absent, number_of_players_late
		FROM training_session
		WHERE id = ? AND club_id = ?
	`), sessionID, clubID)

	session, err := scanTrainingSession(row)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("%w: training session %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(`
		SELECT training_session_id, player_id, status, arrival_time, with_reason, COALESCE(reason, '')
		FROM training_session_player
		WHERE training_session_id = ?
	`), sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list session players: %w", err)
	}
	defer rows.Close()

	var players []readmodel.TrainingSessionPlayerRow
	for rows.Next() {
		var (
			p       readmodel.TrainingSessionPlayerRow
			arrival sql.NullString
		)
		if err := rows.Scan(&p.TrainingSessionID, &p.PlayerID, &p.Status, &arrival, &p.WithReason, &p.Reason); err != nil {
			return nil, nil, fmt.Errorf("scan session player: %w", err)
		}
		if arrival.Valid {
			if t, err := time.Parse(time.RFC3339Nano, arrival.String); err == nil {
				p.ArrivalTime = &t
			}
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &session, players, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrainingSession(row scanner) (readmodel.TrainingSessionRow, error) {
	var (
		session          readmodel.TrainingSessionRow
		startStr, endStr string
	)
	err := row.Scan(&session.ID, &session.ClubID, &startStr, &endStr, &session.Cancelled,
		&session.NumberOfPlayersPresent, &session.NumberOfPlayersAbsent, &session.NumberOfPlayersLate)
	if err != nil {
		return session, err
	}
	if t, err := time.Parse(time.RFC3339Nano, startStr); err == nil {
		session.StartTime = t
	}
	if t, err := time.Parse(time.RFC3339Nano, endStr); err == nil {
		session.EndTime = t
	}
	return session, nil
}
