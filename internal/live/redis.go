package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "absensi:session:"

// RedisBroker fans events out over Redis Pub/Sub so monitors on other
// instances see check-ins recorded here.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker builds a broker publishing on per-session channels.
func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

// Publish sends the event as JSON on the session's channel.
func (b *RedisBroker) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+evt.SessionID, payload).Err()
}

// Subscribe opens a Redis subscription for the session and translates
// messages onto an Event channel. Cancel closes the subscription.
func (b *RedisBroker) Subscribe(ctx context.Context, sessionID string) (<-chan Event, CancelFunc, error) {
	pubsub := b.client.Subscribe(ctx, channelPrefix+sessionID)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("live: dropping malformed event on %s: %v", msg.Channel, err)
				continue
			}
			select {
			case out <- evt:
			default:
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}
	return out, cancel, nil
}
