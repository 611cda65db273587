package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/insightly/insightly-go/models"
)

// Read-through helpers for the analytics read APIs: a hit returns the
// parsed record, a miss (or parse failure, or disabled cache) returns
// false and the caller recomputes from raw storage.

// GetMainRecord fetches a cached main time-series record.
func (m *Manager) GetMainRecord(ctx context.Context, websiteID, duration string) (*models.MainCacheRecord, bool) {
	raw, ok := m.fetch(ctx, MainKey(websiteID, duration))
	if !ok {
		return nil, false
	}
	rec, err := ParseMainRecord(raw)
	if err != nil {
		log.Printf("WARNING: dropping unreadable cache record %s: %v", MainKey(websiteID, duration), err)
		return nil, false
	}
	return rec, true
}

// SetMainRecord stores a freshly computed main record.
func (m *Manager) SetMainRecord(ctx context.Context, websiteID string, rec *models.MainCacheRecord, ttl time.Duration) {
	m.storeRecord(ctx, MainKey(websiteID, rec.Duration), rec, ttl)
}

// GetOthersRecord fetches a cached dimensional-breakdown record.
func (m *Manager) GetOthersRecord(ctx context.Context, websiteID, duration string) (*models.OthersCacheRecord, bool) {
	raw, ok := m.fetch(ctx, OthersKey(websiteID, duration))
	if !ok {
		return nil, false
	}
	rec, err := ParseOthersRecord(raw)
	if err != nil {
		log.Printf("WARNING: dropping unreadable cache record %s: %v", OthersKey(websiteID, duration), err)
		return nil, false
	}
	return rec, true
}

// SetOthersRecord stores a freshly computed others record.
func (m *Manager) SetOthersRecord(ctx context.Context, websiteID string, rec *models.OthersCacheRecord, ttl time.Duration) {
	m.storeRecord(ctx, OthersKey(websiteID, rec.Duration), rec, ttl)
}

// GetGoalsRecord fetches the cached goals record.
func (m *Manager) GetGoalsRecord(ctx context.Context, websiteID string) (*models.GoalsCacheRecord, bool) {
	raw, ok := m.fetch(ctx, GoalsKey(websiteID))
	if !ok {
		return nil, false
	}
	rec, err := ParseGoalsRecord(raw)
	if err != nil {
		log.Printf("WARNING: dropping unreadable cache record %s: %v", GoalsKey(websiteID), err)
		return nil, false
	}
	return rec, true
}

// SetGoalsRecord stores a freshly computed goals record.
func (m *Manager) SetGoalsRecord(ctx context.Context, websiteID string, rec *models.GoalsCacheRecord, ttl time.Duration) {
	m.storeRecord(ctx, GoalsKey(websiteID), rec, ttl)
}

func (m *Manager) fetch(ctx context.Context, key string) ([]byte, bool) {
	if m.rdb == nil {
		return nil, false
	}
	raw, err := m.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("WARNING: cache read failed for %s: %v", key, err)
		return nil, false
	}
	return []byte(raw), true
}

// storeRecord is best-effort: a failed write only costs the next reader
// a recompute.
func (m *Manager) storeRecord(ctx context.Context, key string, rec any, ttl time.Duration) {
	if m.rdb == nil {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		log.Printf("ERROR: failed to encode cache record %s: %v", key, err)
		return
	}
	if err := m.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Printf("WARNING: cache write failed for %s: %v", key, err)
	}
}
