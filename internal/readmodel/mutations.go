package readmodel

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Mutations run inside the projection worker's transaction so each applied
// event and the cursor advance commit together. Upsert semantics keep the
// projection idempotent under replay.

// UpsertUser inserts or replaces a user row.
func (s *Store) UpsertUser(ctx context.Context, tx *sql.Tx, row UserRow) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO "user" (id, email, first_name, last_name, name)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			name = excluded.name
	`), row.ID, row.Email, row.FirstName, row.LastName, row.Name)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", row.ID, err)
	}
	return nil
}

// UpdateUserName updates a user's names.
func (s *Store) UpdateUserName(ctx context.Context, tx *sql.Tx, id, firstName, lastName, name string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		UPDATE "user" SET first_name = ?, last_name = ?, name = ? WHERE id = ?
	`), firstName, lastName, name, id)
	if err != nil {
		return fmt.Errorf("update user name %s: %w", id, err)
	}
	return nil
}

// UpdateUserEmail updates a user's email address.
func (s *Store) UpdateUserEmail(ctx context.Context, tx *sql.Tx, id, email string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`UPDATE "user" SET email = ? WHERE id = ?`), email, id)
	if err != nil {
		return fmt.Errorf("update user email %s: %w", id, err)
	}
	return nil
}

// UpsertClub inserts or replaces a club row. The player counter is preserved
// on conflict.
func (s *Store) UpsertClub(ctx context.Context, tx *sql.Tx, id, name, registrationNumber, ownerID string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO club (id, name, registration_number, owner_id, number_of_players)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			registration_number = excluded.registration_number,
			owner_id = excluded.owner_id
	`), id, name, registrationNumber, ownerID)
	if err != nil {
		return fmt.Errorf("upsert club %s: %w", id, err)
	}
	return nil
}

// SetClubOwner updates the owner of a club.
func (s *Store) SetClubOwner(ctx context.Context, tx *sql.Tx, id, ownerID string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`UPDATE club SET owner_id = ? WHERE id = ?`), ownerID, id)
	if err != nil {
		return fmt.Errorf("set club owner %s: %w", id, err)
	}
	return nil
}

// AdjustClubPlayerCount adds delta to a club's player counter.
func (s *Store) AdjustClubPlayerCount(ctx context.Context, tx *sql.Tx, clubID string, delta int) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		UPDATE club SET number_of_players = number_of_players + ? WHERE id = ?
	`), delta, clubID)
	if err != nil {
		return fmt.Errorf("adjust club player count %s: %w", clubID, err)
	}
	return nil
}

// UpsertPlayer inserts or replaces a player's identity fields, preserving club
// membership columns on conflict.
func (s *Store) UpsertPlayer(ctx context.Context, tx *sql.Tx, row PlayerRow) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO player (id, club_id, first_name, last_name, gender, date_of_birth, season, license_number, license_type)
		VALUES (?, NULL, ?, ?, ?, ?, NULL, ?, NULL)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			gender = excluded.gender,
			date_of_birth = excluded.date_of_birth,
			license_number = excluded.license_number
	`), row.ID, row.FirstName, row.LastName, row.Gender, row.DateOfBirth, row.LicenseNumber)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", row.ID, err)
	}
	return nil
}

// SetPlayerClub records a player's club membership for a season.
func (s *Store) SetPlayerClub(ctx context.Context, tx *sql.Tx, playerID, clubID, season, licenseType string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		UPDATE player SET club_id = ?, season = ?, license_type = ? WHERE id = ?
	`), clubID, season, licenseType, playerID)
	if err != nil {
		return fmt.Errorf("set player club %s: %w", playerID, err)
	}
	return nil
}

// ClearPlayerClub removes a player's club membership.
func (s *Store) ClearPlayerClub(ctx context.Context, tx *sql.Tx, playerID string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`UPDATE player SET club_id = NULL WHERE id = ?`), playerID)
	if err != nil {
		return fmt.Errorf("clear player club %s: %w", playerID, err)
	}
	return nil
}

// UpsertCollective inserts or replaces a collective row, preserving the player
// counter on conflict.
func (s *Store) UpsertCollective(ctx context.Context, tx *sql.Tx, id, clubID, name, description string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO collective (id, club_id, name, description, number_of_players)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT (id) DO UPDATE SET
			club_id = excluded.club_id,
			name = excluded.name,
			description = excluded.description
	`), id, clubID, name, description)
	if err != nil {
		return fmt.Errorf("upsert collective %s: %w", id, err)
	}
	return nil
}

// CollectiveClubID returns the club owning a collective.
func (s *Store) CollectiveClubID(ctx context.Context, tx *sql.Tx, collectiveID string) (string, error) {
	var clubID string
	err := tx.QueryRowContext(ctx,
		s.Rebind(`SELECT club_id FROM collective WHERE id = ?`), collectiveID,
	).Scan(&clubID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("collective club id %s: %w", collectiveID, err)
	}
	return clubID, nil
}

// AddCollectivePlayer inserts the association row. Returns false when the
// player was already a member (idempotent replay).
func (s *Store) AddCollectivePlayer(ctx context.Context, tx *sql.Tx, collectiveID, playerID string) (bool, error) {
	res, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO collective_player (collective_id, player_id)
		VALUES (?, ?)
		ON CONFLICT (collective_id, player_id) DO NOTHING
	`), collectiveID, playerID)
	if err != nil {
		return false, fmt.Errorf("add collective player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveCollectivePlayer deletes the association row. Returns false when the
// player was not a member.
func (s *Store) RemoveCollectivePlayer(ctx context.Context, tx *sql.Tx, collectiveID, playerID string) (bool, error) {
	res, err := tx.ExecContext(ctx, s.Rebind(`
		DELETE FROM collective_player WHERE collective_id = ? AND player_id = ?
	`), collectiveID, playerID)
	if err != nil {
		return false, fmt.Errorf("remove collective player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AdjustCollectivePlayerCount adds delta to a collective's player counter.
func (s *Store) AdjustCollectivePlayerCount(ctx context.Context, tx *sql.Tx, collectiveID string, delta int) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		UPDATE collective SET number_of_players = number_of_players + ? WHERE id = ?
	`), delta, collectiveID)
	if err != nil {
		return fmt.Errorf("adjust collective player count %s: %w", collectiveID, err)
	}
	return nil
}

// UpsertTrainingSession inserts or replaces a training session row, preserving
// counters on conflict.
func (s *Store) UpsertTrainingSession(ctx context.Context, tx *sql.Tx, id, clubID string, startTime, endTime time.Time) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO training_session (id, club_id, start_time, end_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			club_id = excluded.club_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time
	`), id, clubID, startTime.UTC().Format(timeLayout), endTime.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert training session %s: %w", id, err)
	}
	return nil
}

// MarkTrainingSessionCancelled flags a session as cancelled.
func (s *Store) MarkTrainingSessionCancelled(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, s.Rebind(`UPDATE training_session SET cancelled = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("cancel training session %s: %w", id, err)
	}
	return nil
}

// TrainingSessionPlayerStatus returns a player's recorded status for a
// session, or "" when none exists.
func (s *Store) TrainingSessionPlayerStatus(ctx context.Context, tx *sql.Tx, sessionID, playerID string) (string, error) {
	var status string
	err := tx.QueryRowContext(ctx, s.Rebind(`
		SELECT status FROM training_session_player
		WHERE training_session_id = ? AND player_id = ?
	`), sessionID, playerID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("training session player status: %w", err)
	}
	return status, nil
}

// SetTrainingSessionPlayerStatus upserts a player's status row for a session.
func (s *Store) SetTrainingSessionPlayerStatus(ctx context.Context, tx *sql.Tx, row TrainingSessionPlayerRow) error {
	var arrival any
	if row.ArrivalTime != nil {
		arrival = row.ArrivalTime.UTC().Format(timeLayout)
	}
	_, err := tx.ExecContext(ctx, s.Rebind(`
		INSERT INTO training_session_player (training_session_id, player_id, status, arrival_time, with_reason, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (training_session_id, player_id) DO UPDATE SET
			status = excluded.status,
			arrival_time = excluded.arrival_time,
			with_reason = excluded.with_reason,
			reason = excluded.reason
	`), row.TrainingSessionID, row.PlayerID, row.Status, arrival, row.WithReason, row.Reason)
	if err != nil {
		return fmt.Errorf("set training session player status: %w", err)
	}
	return nil
}

// RemoveTrainingSessionPlayer deletes a player's status row. Returns the
// prior status, or "" when no row existed.
func (s *Store) RemoveTrainingSessionPlayer(ctx context.Context, tx *sql.Tx, sessionID, playerID string) (string, error) {
	prior, err := s.TrainingSessionPlayerStatus(ctx, tx, sessionID, playerID)
	if err != nil {
		return "", err
	}
	if prior == "" {
		return "", nil
	}
	_, err = tx.ExecContext(ctx, s.Rebind(`
		DELETE FROM training_session_player WHERE training_session_id = ? AND player_id = ?
	`), sessionID, playerID)
	if err != nil {
		return "", fmt.Errorf("remove training session player: %w", err)
	}
	return prior, nil
}

// AdjustTrainingSessionCounter adds delta to the per-status counter of a
// session. An empty status is a no-op.
func (s *Store) AdjustTrainingSessionCounter(ctx context.Context, tx *sql.Tx, sessionID, status string, delta int) error {
	var column string
	switch status {
	case "PRESENT":
		column = "number_of_players_present"
	case "ABSENT":
		column = "number_of_players_absent"
	case "LATE":
		column = "number_of_players_late"
	default:
		return nil
	}
	_, err := tx.ExecContext(ctx, s.Rebind(
		`UPDATE training_session SET `+column+` = `+column+` + ? WHERE id = ?`,
	), delta, sessionID)
	if err != nil {
		return fmt.Errorf("adjust training session counter %s: %w", sessionID, err)
	}
	return nil
}
