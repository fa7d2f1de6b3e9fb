package readmodel

// Tables of the relational read model. Timestamps are stored as RFC 3339 text
// so the same DDL serves SQLite and PostgreSQL.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id TEXT PRIMARY KEY,
		email TEXT,
		first_name TEXT,
		last_name TEXT,
		name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS club (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		registration_number TEXT,
		owner_id TEXT,
		number_of_players INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS collective (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		number_of_players INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS player (
		id TEXT PRIMARY KEY,
		club_id TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		gender TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		season TEXT,
		license_number TEXT,
		license_type TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS collective_player (
		collective_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		PRIMARY KEY (collective_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS training_session (
		id TEXT PRIMARY KEY,
		club_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		cancelled BOOLEAN NOT NULL DEFAULT FALSE,
		number_of_players_present INTEGER NOT NULL DEFAULT 0,
		number_of_players_absent INTEGER NOT NULL DEFAULT 0,
		number_of_players_late INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS training_session_player (
		training_session_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		status TEXT NOT NULL,
		arrival_time TEXT,
		with_reason BOOLEAN NOT NULL DEFAULT FALSE,
		reason TEXT,
		PRIMARY KEY (training_session_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS last_recorded_event_position (
		id INTEGER PRIMARY KEY,
		position BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_club ON player(club_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collective_club ON collective(club_id)`,
	`CREATE INDEX IF NOT EXISTS idx_training_session_club ON training_session(club_id)`,
}

var tableNames = []string{
	"training_session_player",
	"training_session",
	"collective_player",
	"collective",
	"player",
	"club",
	`"user"`,
	"last_recorded_event_position",
}
