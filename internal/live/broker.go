package live

import (
	"context"

	"absensi/internal/attendance"
)

// Event is one newly inserted attendance row, scoped to its session.
type Event struct {
	SessionID string            `json:"session_id"`
	Record    attendance.Record `json:"record"`
}

// CancelFunc tears a subscription down. The subscriber owns it and must
// call it on every exit path; a leaked subscription keeps holding a
// connection and delivering events to nobody.
type CancelFunc func()

// Broker fans insert events out to per-session subscribers.
type Broker interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, CancelFunc, error)
}

// Notifier adapts a Broker to the attendance service's notification hook.
type Notifier struct {
	Broker Broker
}

// Notify publishes the record to the broker. Delivery failures are dropped
// here: a check-in that reached the store must not fail because fan-out did.
func (n Notifier) Notify(ctx context.Context, rec attendance.Record) {
	_ = n.Broker.Publish(ctx, Event{SessionID: rec.SessionID, Record: rec})
}
