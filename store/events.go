package store

import (
	"context"
	"fmt"
	"time"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// InsertEvent writes one normalized event row. Rows are never mutated.
func (s *Store) InsertEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = utils.GenerateULID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO events
		 (id, website_id, page, visitor_id, session_id, type, referrer, browser, os, device, country_code, region, city, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.WebsiteID, e.Page, e.VisitorID, e.SessionID, e.Type,
		e.Referrer, e.Browser, e.OS, e.Device, e.CountryCode, e.Region, e.City,
		e.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// HasEvent reports whether any event exists for the session, used to
// gate heartbeat recording.
func (s *Store) HasEvent(ctx context.Context, websiteID, visitorID, sessionID string) (bool, error) {
	var exists int
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE website_id = ? AND visitor_id = ? AND session_id = ?)`,
		websiteID, visitorID, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists == 1, nil
}

// MainTimeseries recomputes the main time series from raw event and
// revenue rows for the given duration window. This is the authoritative
// fallback behind the cache.
func (s *Store) MainTimeseries(ctx context.Context, websiteID, duration string, now time.Time) ([]models.MainBucket, error) {
	since, until := utils.WindowFor(duration, now)
	grain := "%Y-%m-%d-%H"
	if utils.IsDayGrained(duration) {
		grain = "%Y-%m-%d"
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT strftime(?, created_at), COUNT(*)
		 FROM events
		 WHERE website_id = ? AND type = 'pageview' AND created_at >= ? AND created_at < ?
		 GROUP BY 1 ORDER BY 1`,
		grain, websiteID, since.Format(timeFormat), until.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query timeseries: %w", err)
	}
	defer rows.Close()

	var buckets []models.MainBucket
	index := make(map[string]int)
	for rows.Next() {
		var b models.MainBucket
		if err := rows.Scan(&b.Name, &b.Visitors); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		index[b.Name] = len(buckets)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	revRows, err := s.DB.QueryContext(ctx,
		`SELECT strftime(?, created_at), SUM(revenue)
		 FROM revenues
		 WHERE website_id = ? AND created_at >= ? AND created_at < ?
		 GROUP BY 1 ORDER BY 1`,
		grain, websiteID, since.Format(timeFormat), until.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue buckets: %w", err)
	}
	defer revRows.Close()

	for revRows.Next() {
		var name string
		var revenue float64
		if err := revRows.Scan(&name, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue bucket: %w", err)
		}
		if i, ok := index[name]; ok {
			buckets[i].Revenue = revenue
		} else {
			buckets = append(buckets, models.MainBucket{Name: name, Revenue: revenue})
		}
	}
	return buckets, revRows.Err()
}

// breakdownColumns whitelists the dimension columns exposed via the
// others aggregation.
var breakdownColumns = map[string]string{
	"page":     "page",
	"referrer": "referrer",
	"country":  "country_code",
	"region":   "region",
	"city":     "city",
	"browser":  "browser",
	"os":       "os",
	"device":   "device",
}

// Breakdown aggregates one dimension over the duration window.
func (s *Store) Breakdown(ctx context.Context, websiteID, dimension, duration string, now time.Time) ([]models.DimensionRecord, error) {
	col, ok := breakdownColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown dimension: %s", dimension)
	}
	since, until := utils.WindowFor(duration, now)

	query := fmt.Sprintf(
		`SELECT %s, COUNT(*)
		 FROM events
		 WHERE website_id = ? AND type = 'pageview' AND created_at >= ? AND created_at < ? AND %s != ''
		 GROUP BY %s ORDER BY COUNT(*) DESC LIMIT 100`, col, col, col)

	rows, err := s.DB.QueryContext(ctx, query,
		websiteID, since.Format(timeFormat), until.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s breakdown: %w", dimension, err)
	}
	defer rows.Close()

	var records []models.DimensionRecord
	for rows.Next() {
		var r models.DimensionRecord
		if err := rows.Scan(&r.Label, &r.Visitors); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
