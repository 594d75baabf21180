package session

import "time"

// Kind selects which attendee schema and backing table a session uses.
type Kind string

const (
	KindExternal Kind = "external"
	KindEmployee Kind = "employee"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindExternal || k == KindEmployee
}

// Label is the human-facing Indonesian label used in report filenames.
func (k Kind) Label() string {
	if k == KindEmployee {
		return "Pegawai"
	}
	return "Eksternal"
}

// Session is a single meeting with a schedule and a unique check-in link.
// QRCode holds the check-in URL derived once at creation; it never changes
// afterwards, even when descriptive fields are edited.
type Session struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	QRCode      string     `json:"qr_code"`
	IsActive    bool       `json:"is_active"`
	Kind        Kind       `json:"session_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
