package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"absensi/internal/session"
)

type fakeStore struct {
	inserted  []Record
	recent    *Record
	insertErr error
}

func (f *fakeStore) Insert(ctx context.Context, rec Record) (Record, error) {
	if f.insertErr != nil {
		return Record{}, f.insertErr
	}
	rec.ID = "rec-1"
	f.inserted = append(f.inserted, rec)
	return rec, nil
}

func (f *fakeStore) ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]Record, error) {
	return f.inserted, nil
}

func (f *fakeStore) RecentByIdentity(ctx context.Context, sessionID string, kind session.Kind, identity string, window time.Duration) (*Record, error) {
	return f.recent, nil
}

type fakeSessions struct {
	sess session.Session
	err  error
}

func (f *fakeSessions) Get(ctx context.Context, id string) (session.Session, error) {
	return f.sess, f.err
}

type recordingNotifier struct {
	got []Record
}

func (n *recordingNotifier) Notify(ctx context.Context, rec Record) {
	n.got = append(n.got, rec)
}

func externalSubmission() Submission {
	return Submission{
		External: &ExternalFields{
			FullName:    "Alice",
			Institution: "Acme",
			Position:    "Manager",
			PhoneNumber: "0811000111",
		},
		Signature: "data:image/png;base64,aGVsbG8=",
	}
}

func activeSession(kind session.Kind) session.Session {
	return session.Session{ID: "sess-1", Title: "Rapat Q4", IsActive: true, Kind: kind}
}

func TestSubmitInactiveSessionCreatesNothing(t *testing.T) {
	store := &fakeStore{}
	sess := activeSession(session.KindExternal)
	sess.IsActive = false
	svc := NewService(store, &fakeSessions{sess: sess}, nil, 0)

	_, err := svc.Submit(context.Background(), "sess-1", externalSubmission())
	if !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("want ErrSessionUnavailable, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("no row should be created, got %d", len(store.inserted))
	}
}

func TestSubmitMissingSessionCreatesNothing(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeSessions{err: session.ErrNotFound}, nil, 0)

	_, err := svc.Submit(context.Background(), "nope", externalSubmission())
	if !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("want ErrSessionUnavailable, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("no row should be created, got %d", len(store.inserted))
	}
}

func TestSubmitValidationNoWrite(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{"missing name", func(s *Submission) { s.External.FullName = "" }, "full_name"},
		{"missing institution", func(s *Submission) { s.External.Institution = " " }, "institution"},
		{"missing phone", func(s *Submission) { s.External.PhoneNumber = "" }, "phone_number"},
		{"empty signature", func(s *Submission) { s.Signature = "" }, "signature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, nil, 0)

			sub := externalSubmission()
			tc.mutate(&sub)
			_, err := svc.Submit(context.Background(), "sess-1", sub)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f == tc.want {
					found = true
				}
			}
			if !found {
				t.Fatalf("want %q in missing fields, got %v", tc.want, verr.Fields)
			}
			if len(store.inserted) != 0 {
				t.Fatalf("validation failure must not write, got %d rows", len(store.inserted))
			}
		})
	}
}

func TestSubmitAssignsServerTimestamp(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, nil, 0)
	fixed := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rec, err := svc.Submit(context.Background(), "sess-1", externalSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !rec.CheckedInAt.Equal(fixed) {
		t.Fatalf("timestamp must be server-assigned, got %v", rec.CheckedInAt)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("want exactly one row, got %d", len(store.inserted))
	}
	if rec.Kind != session.KindExternal || rec.External == nil || rec.Employee != nil {
		t.Fatalf("row must carry only the external variant: %+v", rec)
	}
}

func TestSubmitEmployeeKindUsesEmployeeVariant(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindEmployee)}, nil, 0)

	rec, err := svc.Submit(context.Background(), "sess-1", Submission{
		Employee:  &EmployeeFields{NIP: "19820101", FullName: "Budi", Position: "Kepala Seksi"},
		Signature: "data:image/png;base64,aGVsbG8=",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Kind != session.KindEmployee || rec.Employee == nil || rec.External != nil {
		t.Fatalf("row must carry only the employee variant: %+v", rec)
	}
	if rec.Identity() != "19820101" {
		t.Fatalf("employee identity should be the NIP, got %q", rec.Identity())
	}
}

func TestSubmitEmployeeValidation(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindEmployee)}, nil, 0)

	_, err := svc.Submit(context.Background(), "sess-1", Submission{
		Employee:  &EmployeeFields{FullName: "Budi", Position: "Staf"},
		Signature: "sig",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != "nip" {
		t.Fatalf("want [nip], got %v", verr.Fields)
	}
}

func TestSubmitDuplicateWindow(t *testing.T) {
	store := &fakeStore{recent: &Record{ID: "earlier"}}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, nil, 5*time.Minute)

	_, err := svc.Submit(context.Background(), "sess-1", externalSubmission())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("duplicate must not write, got %d rows", len(store.inserted))
	}

	// Window disabled: the same resubmission creates a second row.
	svc = NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, nil, 0)
	if _, err := svc.Submit(context.Background(), "sess-1", externalSubmission()); err != nil {
		t.Fatalf("submit with dedup off: %v", err)
	}
}

func TestSubmitStoreFailureIsSubmissionError(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("connection reset")}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, nil, 0)

	_, err := svc.Submit(context.Background(), "sess-1", externalSubmission())
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("want SubmissionError, got %v", err)
	}
}

func TestSubmitNotifiesAfterWrite(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	svc := NewService(store, &fakeSessions{sess: activeSession(session.KindExternal)}, notifier, 0)

	rec, err := svc.Submit(context.Background(), "sess-1", externalSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != rec.ID {
		t.Fatalf("notifier should see the saved row, got %+v", notifier.got)
	}
}
