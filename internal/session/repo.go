package session

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists sessions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new session and fills in the store-assigned timestamps.
func (r *Repository) Insert(ctx context.Context, s Session) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, title, description, location, start_time, end_time, qr_code, is_active, session_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, s.ID, s.Title, s.Description, s.Location, s.StartTime, s.EndTime, s.QRCode, s.IsActive, s.Kind)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Get returns a session by id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, location, start_time, end_time, qr_code, is_active, session_type, created_at, updated_at
		FROM sessions WHERE id = $1
	`, id)
	var s Session
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Location, &s.StartTime, &s.EndTime, &s.QRCode, &s.IsActive, &s.Kind, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns all sessions, newest first.
func (r *Repository) List(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, location, start_time, end_time, qr_code, is_active, session_type, created_at, updated_at
		FROM sessions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Location, &s.StartTime, &s.EndTime, &s.QRCode, &s.IsActive, &s.Kind, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Update edits descriptive fields and the schedule. The qr_code and
// session_type columns are intentionally absent: the check-in URL is stable
// for the session's lifetime and a session never changes kind.
func (r *Repository) Update(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET title = $2, description = $3, location = $4, start_time = $5, end_time = $6, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Title, s.Description, s.Location, s.StartTime, s.EndTime)
	return err
}

// SetActive toggles whether the session still accepts check-ins.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	return err
}

// Delete removes a session; attendance rows go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
