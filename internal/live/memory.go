package live

import (
	"context"
	"sync"
)

// Memory is a channel-backed broker for dev and tests, and for single
// process deployments that do not run Redis.
type Memory struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewMemory creates an in-memory broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]chan Event)}
}

// Publish delivers the event to every subscriber of its session. A slow
// subscriber's buffer overflowing drops the event for that subscriber only.
func (m *Memory) Publish(ctx context.Context, evt Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs[evt.SessionID] {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

// Subscribe registers a buffered channel for the session. The returned
// cancel closes the channel and removes the registration; it is safe to
// call more than once.
func (m *Memory) Subscribe(ctx context.Context, sessionID string) (<-chan Event, CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[sessionID] == nil {
		m.subs[sessionID] = make(map[int]chan Event)
	}
	id := m.nextID
	m.nextID++
	ch := make(chan Event, 64)
	m.subs[sessionID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs[sessionID], id)
			close(ch)
		})
	}
	return ch, cancel, nil
}
