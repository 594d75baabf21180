package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"absensi/internal/session"
)

// Repository persists attendance rows in Postgres. External and employee
// records live in separate tables because their schemas differ.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes exactly one row into the table matching the record's kind.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CheckedInAt.IsZero() {
		rec.CheckedInAt = time.Now().UTC()
	}
	switch rec.Kind {
	case session.KindEmployee:
		if rec.Employee == nil {
			return Record{}, errors.New("employee fields required")
		}
		row := r.db.QueryRowContext(ctx, `
			INSERT INTO employee_attendances (id, session_id, nip, full_name, position, signature, checked_in_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING created_at
		`, rec.ID, rec.SessionID, rec.Employee.NIP, rec.Employee.FullName, rec.Employee.Position, rec.Signature, rec.CheckedInAt)
		if err := row.Scan(&rec.CreatedAt); err != nil {
			return Record{}, err
		}
	default:
		if rec.External == nil {
			return Record{}, errors.New("external fields required")
		}
		row := r.db.QueryRowContext(ctx, `
			INSERT INTO attendances (id, session_id, full_name, institution, position, phone_number, signature, checked_in_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING created_at
		`, rec.ID, rec.SessionID, rec.External.FullName, rec.External.Institution, rec.External.Position, rec.External.PhoneNumber, rec.Signature, rec.CheckedInAt)
		if err := row.Scan(&rec.CreatedAt); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

// ListBySession returns all rows for a session ordered by check-in time
// ascending, reading the table selected by kind.
func (r *Repository) ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]Record, error) {
	if kind == session.KindEmployee {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, session_id, nip, full_name, position, signature, checked_in_at, created_at
			FROM employee_attendances
			WHERE session_id = $1
			ORDER BY checked_in_at ASC
		`, sessionID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var res []Record
		for rows.Next() {
			rec := Record{Kind: session.KindEmployee, Employee: &EmployeeFields{}}
			if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Employee.NIP, &rec.Employee.FullName, &rec.Employee.Position, &rec.Signature, &rec.CheckedInAt, &rec.CreatedAt); err != nil {
				return nil, err
			}
			res = append(res, rec)
		}
		return res, rows.Err()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, full_name, institution, position, phone_number, signature, checked_in_at, created_at
		FROM attendances
		WHERE session_id = $1
		ORDER BY checked_in_at ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec := Record{Kind: session.KindExternal, External: &ExternalFields{}}
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.External.FullName, &rec.External.Institution, &rec.External.Position, &rec.External.PhoneNumber, &rec.Signature, &rec.CheckedInAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// RecentByIdentity returns a row for the same attendee identity within the
// window, or nil. Identity is the phone number for external rows and the
// NIP for employee rows.
func (r *Repository) RecentByIdentity(ctx context.Context, sessionID string, kind session.Kind, identity string, window time.Duration) (*Record, error) {
	var row *sql.Row
	if kind == session.KindEmployee {
		row = r.db.QueryRowContext(ctx, `
			SELECT id, checked_in_at FROM employee_attendances
			WHERE session_id = $1 AND nip = $2 AND checked_in_at >= NOW() - ($3 * interval '1 second')
			ORDER BY checked_in_at DESC
			LIMIT 1
		`, sessionID, identity, window.Seconds())
	} else {
		row = r.db.QueryRowContext(ctx, `
			SELECT id, checked_in_at FROM attendances
			WHERE session_id = $1 AND phone_number = $2 AND checked_in_at >= NOW() - ($3 * interval '1 second')
			ORDER BY checked_in_at DESC
			LIMIT 1
		`, sessionID, identity, window.Seconds())
	}
	rec := Record{SessionID: sessionID, Kind: kind}
	if err := row.Scan(&rec.ID, &rec.CheckedInAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
