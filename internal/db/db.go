// Package db provides PostgreSQL persistence for pipeline clients, their
// append-only stage history, and action records.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested client does not exist.
var ErrNotFound = errors.New("client not found")

// ErrStaleSnapshot is returned when a commit's expected state no longer
// matches the stored row. The caller should reload the client and
// re-evaluate the operation against the fresh snapshot.
var ErrStaleSnapshot = errors.New("client snapshot is stale")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the pipeline tables when they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			blocked BOOLEAN NOT NULL DEFAULT FALSE,
			held_from_stage TEXT NOT NULL DEFAULT '',
			assigned_recruiter_id UUID,
			assigned_sales_person_id UUID,
			backed_out_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stage_history (
			id BIGSERIAL PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES clients(id),
			status TEXT NOT NULL,
			entered_at TIMESTAMPTZ NOT NULL,
			changed_by TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS action_records (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL REFERENCES clients(id),
			action_name TEXT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			evidence_ref TEXT NOT NULL DEFAULT '',
			performed_by UUID NOT NULL,
			role TEXT NOT NULL,
			performed_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_history_client ON stage_history(client_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_action_records_client ON action_records(client_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
