package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for operations against a session id that does not exist.
var ErrNotFound = errors.New("session not found")

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, s Session) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// Service coordinates session lifecycle and check-in URL derivation.
type Service struct {
	store   Store
	baseURL string
}

// NewService creates a service. baseURL is the public origin the QR payload
// points at, e.g. https://absensi.example.go.id.
func NewService(store Store, baseURL string) *Service {
	return &Service{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateParams are the organizer-supplied fields for a new session.
type CreateParams struct {
	Title       string
	Description *string
	Location    *string
	StartTime   time.Time
	EndTime     *time.Time
	Kind        Kind
}

// CheckinURL derives the public check-in URL for a session id. Called once,
// at creation; the result is stored verbatim and reused from the store
// afterwards.
func (s *Service) CheckinURL(id string, kind Kind) string {
	path := "/attendance/"
	if kind == KindEmployee {
		path = "/employee-attendance/"
	}
	return s.baseURL + path + id
}

// Create persists a new active session with a freshly derived check-in URL.
func (s *Service) Create(ctx context.Context, p CreateParams) (Session, error) {
	if strings.TrimSpace(p.Title) == "" {
		return Session{}, errors.New("title required")
	}
	if p.StartTime.IsZero() {
		return Session{}, errors.New("start time required")
	}
	if !p.Kind.Valid() {
		p.Kind = KindExternal
	}
	id := uuid.NewString()
	return s.store.Insert(ctx, Session{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		QRCode:      s.CheckinURL(id, p.Kind),
		IsActive:    true,
		Kind:        p.Kind,
	})
}

// Get returns a session or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	found, err := s.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if found == nil {
		return Session{}, ErrNotFound
	}
	return *found, nil
}

// List returns all sessions, newest first.
func (s *Service) List(ctx context.Context) ([]Session, error) {
	return s.store.List(ctx)
}

// UpdateParams are the editable fields. Kind and the check-in URL are not
// editable.
type UpdateParams struct {
	Title       string
	Description *string
	Location    *string
	StartTime   time.Time
	EndTime     *time.Time
}

// Update edits descriptive fields, leaving the stored check-in URL untouched.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Session, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return Session{}, errors.New("title required")
	}
	current.Title = p.Title
	current.Description = p.Description
	current.Location = p.Location
	if !p.StartTime.IsZero() {
		current.StartTime = p.StartTime
	}
	current.EndTime = p.EndTime
	if err := s.store.Update(ctx, current); err != nil {
		return Session{}, err
	}
	return s.Get(ctx, id)
}

// SetActive opens or closes the session for check-ins.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (Session, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Session{}, err
	}
	if err := s.store.SetActive(ctx, id, active); err != nil {
		return Session{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes the session and, through the store's cascade, its
// attendance rows.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
