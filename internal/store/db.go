// Package store owns the two backing handles: Postgres for sessions and
// their attendance rows, Redis for the live check-in fan-out. The schema
// lives here too; repositories in the domain packages only query it.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The workload is many short check-in inserts plus occasional full-session
// report reads, so the pool stays small.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	openPingTimeout = 5 * time.Second
)

// DB is the Postgres handle behind the session and attendance repositories.
type DB struct {
	Client *sql.DB
}

// NewDB opens the pool through the pgx stdlib driver and verifies
// connectivity before returning it.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{Client: db}, nil
}

// Healthy reports database reachability for the health endpoint. A nil
// handle is unhealthy, not a panic.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying pool.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// Migrate creates the schema when it does not exist yet: one sessions table
// and one attendance table per session kind. Attendance rows are owned by
// their session and removed with it.
func (d *DB) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			location TEXT,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			qr_code TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			session_type VARCHAR(16) NOT NULL DEFAULT 'external',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendances (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			full_name TEXT NOT NULL,
			institution TEXT NOT NULL,
			position TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			signature TEXT NOT NULL,
			checked_in_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS employee_attendances (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			nip TEXT NOT NULL,
			full_name TEXT NOT NULL,
			position TEXT NOT NULL,
			signature TEXT NOT NULL,
			checked_in_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendances_session
			ON attendances (session_id, checked_in_at)`,
		`CREATE INDEX IF NOT EXISTS idx_employee_attendances_session
			ON employee_attendances (session_id, checked_in_at)`,
	}
	for _, q := range queries {
		if _, err := d.Client.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
