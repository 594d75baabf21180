package attendance

import (
	"time"

	"absensi/internal/session"
)

// ExternalFields are the attendee fields for sessions of kind external.
type ExternalFields struct {
	FullName    string `json:"full_name"`
	Institution string `json:"institution"`
	Position    string `json:"position"`
	PhoneNumber string `json:"phone_number"`
}

// EmployeeFields are the attendee fields for sessions of kind employee.
// NIP is the employee number (Nomor Induk Pegawai).
type EmployeeFields struct {
	NIP      string `json:"nip"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}

// Record is one attendee's submitted proof of presence. Exactly one of
// External or Employee is set, selected by Kind; consumers switch on the
// tag instead of probing optional fields.
type Record struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"session_id"`
	Kind        session.Kind    `json:"kind"`
	External    *ExternalFields `json:"external,omitempty"`
	Employee    *EmployeeFields `json:"employee,omitempty"`
	Signature   string          `json:"signature"`
	CheckedInAt time.Time       `json:"checked_in_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FullName returns the attendee name regardless of kind.
func (r Record) FullName() string {
	switch r.Kind {
	case session.KindEmployee:
		if r.Employee != nil {
			return r.Employee.FullName
		}
	default:
		if r.External != nil {
			return r.External.FullName
		}
	}
	return ""
}

// Identity is the field duplicate suppression keys on: the phone number for
// external attendees, the NIP for employees.
func (r Record) Identity() string {
	switch r.Kind {
	case session.KindEmployee:
		if r.Employee != nil {
			return r.Employee.NIP
		}
	default:
		if r.External != nil {
			return r.External.PhoneNumber
		}
	}
	return ""
}
