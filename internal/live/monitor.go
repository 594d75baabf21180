package live

import (
	"context"
	"sync"

	"absensi/internal/attendance"
	"absensi/internal/session"
)

// SessionSource fetches the monitored session record.
type SessionSource interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// RowSource fetches the attendance snapshot.
type RowSource interface {
	ListBySession(ctx context.Context, sessionID string, kind session.Kind) ([]attendance.Record, error)
}

// Monitor holds an ordered in-memory view of a session's check-ins: the
// initial snapshot (check-in time ascending) followed by rows appended in
// arrival order. The snapshot prefix is never reordered. Rows inserted
// between the snapshot reads and the subscription opening can be missed;
// that window is a known limitation.
type Monitor struct {
	Session session.Session

	mu     sync.Mutex
	rows   []attendance.Record
	events chan Event
	done   chan struct{}
	cancel CancelFunc
}

// Watch fetches the snapshot (session and rows read concurrently, not
// transactionally), then subscribes to insert events and appends them until
// Stop is called or ctx ends. The caller supplies the session kind so the
// row read knows which table to hit without waiting on the session read.
// The caller must call Stop to release the subscription.
func Watch(ctx context.Context, sessions SessionSource, rows RowSource, broker Broker, sessionID string, kind session.Kind) (*Monitor, error) {
	var (
		wg      sync.WaitGroup
		sess    session.Session
		initial []attendance.Record
		sessErr error
		rowsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sess, sessErr = sessions.Get(ctx, sessionID)
	}()
	go func() {
		defer wg.Done()
		initial, rowsErr = rows.ListBySession(ctx, sessionID, kind)
	}()
	wg.Wait()
	if sessErr != nil {
		return nil, sessErr
	}
	if rowsErr != nil {
		return nil, rowsErr
	}

	events, cancel, err := broker.Subscribe(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m := &Monitor{
		Session: sess,
		rows:    initial,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go func() {
		defer close(m.done)
		defer close(m.events)
		for {
			select {
			case evt, ok := <-events:
				if !ok {
					return
				}
				m.mu.Lock()
				m.rows = append(m.rows, evt.Record)
				m.mu.Unlock()
				select {
				case m.events <- evt:
				default:
				}
			case <-ctx.Done():
				cancel()
				return
			}
		}
	}()
	return m, nil
}

// Events yields each row right after it is appended to the view, for
// callers that forward inserts as they arrive. The channel is closed when
// the monitor stops; a consumer that falls behind misses events rather
// than stalling the view.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Rows returns a copy of the current ordered view.
func (m *Monitor) Rows() []attendance.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.Record, len(m.rows))
	copy(out, m.rows)
	return out
}

// Stop tears the subscription down and waits for the append loop to exit.
// After Stop returns, the view no longer mutates.
func (m *Monitor) Stop() {
	m.cancel()
	<-m.done
}
