package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type memStore struct {
	sessions map[string]Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]Session)}
}

func (m *memStore) Insert(ctx context.Context, s Session) (Session, error) {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) List(ctx context.Context) ([]Session, error) {
	var out []Session
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) Update(ctx context.Context, s Session) error {
	cur := m.sessions[s.ID]
	cur.Title = s.Title
	cur.Description = s.Description
	cur.Location = s.Location
	cur.StartTime = s.StartTime
	cur.EndTime = s.EndTime
	cur.UpdatedAt = time.Now()
	m.sessions[s.ID] = cur
	return nil
}

func (m *memStore) SetActive(ctx context.Context, id string, active bool) error {
	s := m.sessions[id]
	s.IsActive = active
	m.sessions[id] = s
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func create(t *testing.T, svc *Service, kind Kind) Session {
	t.Helper()
	sess, err := svc.Create(context.Background(), CreateParams{
		Title:     "Rapat Koordinasi",
		StartTime: time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
		Kind:      kind,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return sess
}

func TestCreateDerivesCheckinURL(t *testing.T) {
	svc := NewService(newMemStore(), "https://absensi.example.id/")

	sess := create(t, svc, KindExternal)
	want := "https://absensi.example.id/attendance/" + sess.ID
	if sess.QRCode != want {
		t.Fatalf("want qr_code %q, got %q", want, sess.QRCode)
	}
	if !sess.IsActive {
		t.Fatal("new sessions start active")
	}

	emp := create(t, svc, KindEmployee)
	if !strings.Contains(emp.QRCode, "/employee-attendance/"+emp.ID) {
		t.Fatalf("employee sessions use the employee path, got %q", emp.QRCode)
	}
}

func TestUpdateKeepsCheckinURLStable(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, "https://absensi.example.id")

	sess := create(t, svc, KindExternal)
	loc := "Aula Lantai 2"
	updated, err := svc.Update(context.Background(), sess.ID, UpdateParams{
		Title:     "Rapat Koordinasi (Revisi)",
		Location:  &loc,
		StartTime: sess.StartTime.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.QRCode != sess.QRCode {
		t.Fatalf("check-in URL must not change on edit: %q -> %q", sess.QRCode, updated.QRCode)
	}
	if updated.Title != "Rapat Koordinasi (Revisi)" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(newMemStore(), "https://absensi.example.id")
	_, err := svc.Create(context.Background(), CreateParams{StartTime: time.Now()})
	if err == nil {
		t.Fatal("want error for missing title")
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newMemStore(), "https://absensi.example.id")
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSetActiveToggles(t *testing.T) {
	svc := NewService(newMemStore(), "https://absensi.example.id")
	sess := create(t, svc, KindExternal)

	closed, err := svc.SetActive(context.Background(), sess.ID, false)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if closed.IsActive {
		t.Fatal("session should be closed")
	}
	reopened, err := svc.SetActive(context.Background(), sess.ID, true)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if !reopened.IsActive {
		t.Fatal("session should be open again")
	}
}

func TestKindLabel(t *testing.T) {
	if KindExternal.Label() != "Eksternal" || KindEmployee.Label() != "Pegawai" {
		t.Fatalf("unexpected labels: %q %q", KindExternal.Label(), KindEmployee.Label())
	}
}
