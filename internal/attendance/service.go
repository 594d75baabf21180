package attendance

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"absensi/internal/session"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]Record, error)
	RecentByIdentity(ctx context.Context, sessionID string, kind session.Kind, identity string, window time.Duration) (*Record, error)
}

// SessionSource looks up the owning session at the check-in boundary.
type SessionSource interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// Notifier receives every successfully written record, e.g. to fan it out
// to live monitors. A nil notifier is allowed.
type Notifier interface {
	Notify(ctx context.Context, rec Record)
}

// Service validates and records attendee check-ins.
type Service struct {
	store       Store
	sessions    SessionSource
	notifier    Notifier
	dedupWindow time.Duration
	now         func() time.Time
}

// NewService creates a service. dedupWindow of zero disables duplicate
// suppression, matching the historical behavior where resubmitting created
// a second row.
func NewService(store Store, sessions SessionSource, notifier Notifier, dedupWindow time.Duration) *Service {
	return &Service{
		store:       store,
		sessions:    sessions,
		notifier:    notifier,
		dedupWindow: dedupWindow,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submission is the attendee-entered payload. Required fields depend on the
// session kind; Signature is a data-URL encoded bitmap and is always
// required.
type Submission struct {
	External  *ExternalFields
	Employee  *EmployeeFields
	Signature string
}

// SessionForCheckin returns the session when it exists and is accepting
// check-ins, otherwise ErrSessionUnavailable. Callers must not display the
// form on error.
func (s *Service) SessionForCheckin(ctx context.Context, sessionID string) (session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, ErrSessionUnavailable
		}
		return session.Session{}, err
	}
	if !sess.IsActive {
		return session.Session{}, ErrSessionUnavailable
	}
	return sess, nil
}

// Submit records one check-in for an active session. The check-in timestamp
// is assigned here, never taken from the client, so row ordering does not
// depend on attendee clocks.
func (s *Service) Submit(ctx context.Context, sessionID string, sub Submission) (Record, error) {
	sess, err := s.SessionForCheckin(ctx, sessionID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		SessionID:   sessionID,
		Kind:        sess.Kind,
		Signature:   sub.Signature,
		CheckedInAt: s.now(),
	}
	// Keep only the variant matching the session's kind so a client that
	// sends both cannot produce a mixed row.
	if sess.Kind == session.KindEmployee {
		rec.Employee = sub.Employee
	} else {
		rec.External = sub.External
	}
	if verr := validate(sess.Kind, rec); verr != nil {
		return Record{}, verr
	}

	if s.dedupWindow > 0 {
		recent, err := s.store.RecentByIdentity(ctx, sessionID, sess.Kind, rec.Identity(), s.dedupWindow)
		if err != nil {
			return Record{}, &SubmissionError{Err: err}
		}
		if recent != nil {
			return Record{}, ErrDuplicate
		}
	}

	saved, err := s.store.Insert(ctx, rec)
	if err != nil {
		return Record{}, &SubmissionError{Err: err}
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, saved)
	}
	return saved, nil
}

// ListBySession returns the session's rows ordered by check-in time.
func (s *Service) ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]Record, error) {
	return s.store.ListBySession(ctx, sessionID, kind)
}

func validate(kind session.Kind, rec Record) error {
	var missing []string
	switch kind {
	case session.KindEmployee:
		f := rec.Employee
		if f == nil {
			f = &EmployeeFields{}
		}
		if blank(f.NIP) {
			missing = append(missing, "nip")
		}
		if blank(f.FullName) {
			missing = append(missing, "full_name")
		}
		if blank(f.Position) {
			missing = append(missing, "position")
		}
	default:
		f := rec.External
		if f == nil {
			f = &ExternalFields{}
		}
		if blank(f.FullName) {
			missing = append(missing, "full_name")
		}
		if blank(f.Institution) {
			missing = append(missing, "institution")
		}
		if blank(f.Position) {
			missing = append(missing, "position")
		}
		if blank(f.PhoneNumber) {
			missing = append(missing, "phone_number")
		}
	}
	if blank(rec.Signature) {
		missing = append(missing, "signature")
	}
	if len(missing) > 0 {
		log.Printf("check-in rejected for session %s: missing %v", rec.SessionID, missing)
		return &ValidationError{Fields: missing}
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
