package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the live check-in fan-out. A down Redis degrades the live
// monitor only; check-ins and exports keep working, so timeouts are short
// and failures surface through Healthy rather than blocking requests.
type Redis struct {
	Client *redis.Client
}

// NewRedis dials with short timeouts tuned for pub/sub and health pings.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return &Redis{Client: client}
}

// Healthy reports Redis reachability for the health endpoint. A nil handle
// is unhealthy, not a panic.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the client and its connections.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
