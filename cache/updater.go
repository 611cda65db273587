package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// Update types accepted by UpdateCache.
const (
	TypeVisitors = "visitors"
	TypeRevenues = "revenues"
)

// UpdateCache applies one event's (or revenue delta's) dimensional data
// to every live cached aggregation covering the website, without a full
// recompute from raw storage.
//
// The scan-then-mutate-then-write sequence is not wrapped in any
// transaction; concurrent updaters racing on the same key lose at most
// one increment (last write wins), which self-heals on the next full
// aggregation read. Any parse error aborts the whole call: a malformed
// record is never partially patched.
func (m *Manager) UpdateCache(ctx context.Context, update *models.CacheUpdate) error {
	if m.rdb == nil {
		return nil
	}

	now := time.Now().UTC()

	if update.Type == TypeVisitors || update.Type == TypeRevenues {
		if err := m.updateMainRecords(ctx, update, now); err != nil {
			return err
		}
		if err := m.updateOthersRecords(ctx, update); err != nil {
			return err
		}
	}
	if update.GoalName != "" {
		if err := m.updateGoalsRecords(ctx, update); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) updateMainRecords(ctx context.Context, update *models.CacheUpdate, now time.Time) error {
	keys, err := m.rdb.Keys(ctx, MainPattern(update.WebsiteID)).Result()
	if err != nil {
		return fmt.Errorf("failed to scan main cache keys: %w", err)
	}

	for _, key := range keys {
		raw, err := m.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read cache key %s: %w", key, err)
		}

		rec, err := ParseMainRecord([]byte(raw))
		if errors.Is(err, errNotArray) {
			// Half-written shape; leave it for the next full recompute.
			continue
		}
		if err != nil {
			return err
		}

		applyToMain(rec, durationFromKey(key), update, now)

		if err := m.writeBack(ctx, key, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) updateOthersRecords(ctx context.Context, update *models.CacheUpdate) error {
	keys, err := m.rdb.Keys(ctx, OthersPattern(update.WebsiteID)).Result()
	if err != nil {
		return fmt.Errorf("failed to scan others cache keys: %w", err)
	}

	for _, key := range keys {
		raw, err := m.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read cache key %s: %w", key, err)
		}

		rec, err := ParseOthersRecord([]byte(raw))
		if err != nil {
			return err
		}

		applyToOthers(rec, update)

		if err := m.writeBack(ctx, key, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) updateGoalsRecords(ctx context.Context, update *models.CacheUpdate) error {
	keys, err := m.rdb.Keys(ctx, GoalsPattern(update.WebsiteID)).Result()
	if err != nil {
		return fmt.Errorf("failed to scan goals cache keys: %w", err)
	}

	for _, key := range keys {
		raw, err := m.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read cache key %s: %w", key, err)
		}

		rec, err := ParseGoalsRecord([]byte(raw))
		if err != nil {
			return err
		}

		applyToGoals(rec, update.GoalName)

		if err := m.writeBack(ctx, key, rec); err != nil {
			return err
		}
	}
	return nil
}

// writeBack marshals and stores a mutated record under the same key,
// preserving whatever TTL the key carries.
func (m *Manager) writeBack(ctx context.Context, key string, rec any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode cache record %s: %w", key, err)
	}
	if err := m.rdb.Set(ctx, key, b, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// =============================================================================
// Record mutation (pure; exercised directly by tests)
// =============================================================================

// applyToMain locates the time bucket covering now — a day bucket for
// rolling 7d/30d keys, an hour bucket for 24h/today/yesterday keys —
// and increments it, appending a fresh bucket if none matches.
func applyToMain(rec *models.MainCacheRecord, duration string, update *models.CacheUpdate, now time.Time) {
	bucket := utils.BucketNameFor(duration, now)

	for i := range rec.Dataset {
		if rec.Dataset[i].Name == bucket {
			bumpMain(&rec.Dataset[i], update)
			return
		}
	}

	fresh := models.MainBucket{Name: bucket}
	bumpMain(&fresh, update)
	rec.Dataset = append(rec.Dataset, fresh)
}

func bumpMain(b *models.MainBucket, update *models.CacheUpdate) {
	if update.Type == TypeVisitors {
		b.Visitors++
	}
	if update.Type == TypeRevenues && update.Revenue > 0 {
		b.Revenue += update.Revenue
	}
}

// applyToOthers upserts one record per dimension, keyed by that
// dimension's label. Empty labels are skipped; the referrer label falls
// back to "Direct". Location/browser/OS records get their icon URL
// attached once, at creation.
func applyToOthers(rec *models.OthersCacheRecord, update *models.CacheUpdate) {
	d := update.Data

	rec.Dataset.PageData = upsertDimension(rec.Dataset.PageData, d.Page, "", update)
	rec.Dataset.ReferrerData = upsertDimension(rec.Dataset.ReferrerData, utils.ReferrerHostname(d.Referrer), "", update)
	rec.Dataset.CountryData = upsertDimension(rec.Dataset.CountryData, d.CountryCode, IconForCountry(d.CountryCode), update)
	rec.Dataset.RegionData = upsertDimension(rec.Dataset.RegionData, d.Region, IconForCountry(d.CountryCode), update)
	rec.Dataset.CityData = upsertDimension(rec.Dataset.CityData, d.City, IconForCountry(d.CountryCode), update)
	rec.Dataset.BrowserData = upsertDimension(rec.Dataset.BrowserData, d.Browser, IconForBrowser(d.Browser), update)
	rec.Dataset.OSData = upsertDimension(rec.Dataset.OSData, d.OS, IconForOS(d.OS), update)
	rec.Dataset.DeviceData = upsertDimension(rec.Dataset.DeviceData, d.Device, "", update)
}

func upsertDimension(records []models.DimensionRecord, label, icon string, update *models.CacheUpdate) []models.DimensionRecord {
	if label == "" {
		return records
	}

	for i := range records {
		if records[i].Label == label {
			if update.Type == TypeVisitors {
				records[i].Visitors++
			}
			if update.Type == TypeRevenues && update.Revenue > 0 {
				records[i].Revenue += update.Revenue
			}
			return records
		}
	}

	fresh := models.DimensionRecord{Label: label, Icon: icon}
	if update.Type == TypeVisitors {
		fresh.Visitors = 1
	}
	if update.Type == TypeRevenues && update.Revenue > 0 {
		fresh.Revenue = update.Revenue
	}
	return append(records, fresh)
}

// applyToGoals bumps the named goal's conversion count.
func applyToGoals(rec *models.GoalsCacheRecord, name string) {
	for i := range rec.Dataset {
		if rec.Dataset[i].Name == name {
			rec.Dataset[i].Count++
			return
		}
	}
	rec.Dataset = append(rec.Dataset, models.GoalBucket{Name: name, Count: 1})
}
