package live

import (
	"context"
	"testing"
	"time"

	"absensi/internal/attendance"
	"absensi/internal/session"
)

type staticSessions struct {
	sess session.Session
}

func (s *staticSessions) Get(ctx context.Context, id string) (session.Session, error) {
	return s.sess, nil
}

type staticRows struct {
	rows []attendance.Record
}

func (s *staticRows) ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]attendance.Record, error) {
	return s.rows, nil
}

func waitForRows(t *testing.T, m *Monitor, n int) []attendance.Record {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rows := m.Rows()
		if len(rows) >= n {
			return rows
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("monitor never reached %d rows, have %d", n, len(m.Rows()))
	return nil
}

func TestMonitorAppendsWithoutReorderingSnapshot(t *testing.T) {
	broker := NewMemory()
	sessions := &staticSessions{sess: session.Session{ID: "sess-1", Kind: session.KindExternal, IsActive: true}}
	rows := &staticRows{rows: []attendance.Record{recordNamed("A"), recordNamed("B")}}

	m, err := Watch(context.Background(), sessions, rows, broker, "sess-1", session.KindExternal)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer m.Stop()

	if err := broker.Publish(context.Background(), Event{SessionID: "sess-1", Record: recordNamed("C")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := waitForRows(t, m, 3)
	for i, want := range []string{"A", "B", "C"} {
		if got[i].ID != want {
			t.Fatalf("row %d: want %q, got %q", i, want, got[i].ID)
		}
	}
}

func TestMonitorStopFreezesView(t *testing.T) {
	broker := NewMemory()
	sessions := &staticSessions{sess: session.Session{ID: "sess-1", Kind: session.KindExternal, IsActive: true}}
	rows := &staticRows{rows: []attendance.Record{recordNamed("A")}}

	m, err := Watch(context.Background(), sessions, rows, broker, "sess-1", session.KindExternal)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	m.Stop()

	if err := broker.Publish(context.Background(), Event{SessionID: "sess-1", Record: recordNamed("late")}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	got := m.Rows()
	if len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("stopped monitor must not mutate, got %+v", got)
	}
}

func TestMonitorEventsForwardedAndClosedOnStop(t *testing.T) {
	broker := NewMemory()
	sessions := &staticSessions{sess: session.Session{ID: "sess-1", Kind: session.KindExternal, IsActive: true}}
	rows := &staticRows{rows: []attendance.Record{recordNamed("A")}}

	m, err := Watch(context.Background(), sessions, rows, broker, "sess-1", session.KindExternal)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := broker.Publish(context.Background(), Event{SessionID: "sess-1", Record: recordNamed("B")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case evt := <-m.Events():
		if evt.Record.ID != "B" {
			t.Fatalf("forwarded event %q, want B", evt.Record.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("published event never reached Events()")
	}
	// The forwarded event lands after the append.
	if got := m.Rows(); len(got) != 2 || got[1].ID != "B" {
		t.Fatalf("view out of step with Events(): %+v", got)
	}

	m.Stop()
	select {
	case _, open := <-m.Events():
		if open {
			t.Fatal("Events() delivered after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Events() not closed by Stop")
	}
}

func TestMonitorContextCancelReleasesSubscription(t *testing.T) {
	broker := NewMemory()
	sessions := &staticSessions{sess: session.Session{ID: "sess-1", Kind: session.KindExternal, IsActive: true}}
	rows := &staticRows{}

	ctx, cancel := context.WithCancel(context.Background())
	m, err := Watch(ctx, sessions, rows, broker, "sess-1", session.KindExternal)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("append loop did not exit on context cancel")
	}
}
