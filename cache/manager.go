// Package cache implements the Redis-backed aggregation cache and its
// incremental updater. The cache is a derived, best-effort view: every
// aggregate is recomputable from raw event/revenue rows, so staleness or
// loss here is tolerated and connection failure degrades to a no-op.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Manager wraps the Redis client. A Manager with no live connection is
// valid; every operation on it is a no-op.
type Manager struct {
	rdb *redis.Client
}

// NewManager connects to Redis at url. Connection failure is logged and
// yields a disabled manager rather than an error, because the cache is
// strictly an optimization.
func NewManager(url string) *Manager {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("WARNING: invalid Redis URL, analytics cache disabled: %v", err)
		return &Manager{}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Redis unreachable, analytics cache disabled: %v", err)
		client.Close()
		return &Manager{}
	}

	return &Manager{rdb: client}
}

// Enabled reports whether a live Redis connection is held.
func (m *Manager) Enabled() bool {
	return m.rdb != nil
}

// Close closes the Redis connection.
func (m *Manager) Close() error {
	if m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}
