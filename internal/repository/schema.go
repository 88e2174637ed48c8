package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDBSchema(db *sqlx.DB) error {
	statements := []string{`
CREATE TABLE IF NOT EXISTS inventory_events (
	stream_id TEXT NOT NULL,
	version INTEGER NOT NULL,
	event_name TEXT NOT NULL,
	payload JSONB NOT NULL,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	PRIMARY KEY (stream_id, version)
);`, `
CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`, `
CREATE TABLE IF NOT EXISTS event_tickets (
	ticket_id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL REFERENCES events (event_id),
	ticket_type VARCHAR(255) NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	ticket_type VARCHAR(255) NOT NULL,
	status VARCHAR(32) NOT NULL,
	ticket_id TEXT,
	fail_reason TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`, `
CREATE TABLE IF NOT EXISTS reservations (
	ticket_id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	ticket_type VARCHAR(255) NOT NULL,
	order_id TEXT NOT NULL,
	expires_at TIMESTAMP WITH TIME ZONE NOT NULL
);`, `
CREATE INDEX IF NOT EXISTS reservations_expires_at_idx ON reservations (expires_at);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
