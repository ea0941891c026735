package database

import (
	"context"
	"database/sql"
)

// Schema for the reservation engine.  The UNIQUE key on
// (event_id, seat_row, seat_number) is the concurrency-control primitive:
// two concurrent bookings for one seat cannot both commit, whichever
// insert lands second observes a duplicate-key error.  The unique
// (venue, date) key backs the one-event-per-day rule the same way.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(64) NOT NULL,
		password_hash CHAR(64) NOT NULL,
		salt CHAR(64) NOT NULL,
		user_type VARCHAR(16) NOT NULL DEFAULT 'customer',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(64) NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		date CHAR(10) NOT NULL,
		time CHAR(5) NOT NULL,
		end_time CHAR(5) NOT NULL,
		venue VARCHAR(128) NOT NULL,
		capacity INT NOT NULL DEFAULT 550,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_events_venue_date (venue, date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_reservation (
		reservation_id BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(64) NOT NULL,
		event_id BIGINT UNSIGNED NOT NULL,
		seat_row VARCHAR(4) NOT NULL,
		seat_number INT NOT NULL,
		reserved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status VARCHAR(16) NOT NULL DEFAULT 'reserved',
		UNIQUE KEY uq_event_seat (event_id, seat_row, seat_number),
		KEY idx_reservation_user (event_id, username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application tables when they do not exist yet.
// Statements are idempotent so the bootstrap is safe to run on every
// startup, mirroring how the desktop predecessor prepared its store.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
