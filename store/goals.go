package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// InsertGoal writes one goal row; metadata is stored as a JSON blob.
func (s *Store) InsertGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = utils.GenerateULID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	metadata := "{}"
	if len(g.Metadata) > 0 {
		b, err := json.Marshal(g.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode goal metadata: %w", err)
		}
		metadata = string(b)
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO goals (id, website_id, visitor_id, session_id, name, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.WebsiteID, g.VisitorID, g.SessionID, g.Name, metadata,
		g.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// GoalCounts aggregates conversions per goal name.
func (s *Store) GoalCounts(ctx context.Context, websiteID string) ([]models.GoalBucket, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name, COUNT(*) FROM goals WHERE website_id = ? GROUP BY name ORDER BY COUNT(*) DESC`,
		websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal counts: %w", err)
	}
	defer rows.Close()

	var buckets []models.GoalBucket
	for rows.Next() {
		var b models.GoalBucket
		if err := rows.Scan(&b.Name, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan goal bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// LinkStats aggregates outbound external_link goals by destination URL,
// over the duration window.
func (s *Store) LinkStats(ctx context.Context, websiteID, duration string, now time.Time) ([]models.DimensionRecord, error) {
	since, until := utils.WindowFor(duration, now)

	rows, err := s.DB.QueryContext(ctx,
		`SELECT COALESCE(json_extract(metadata, '$.url'), ''), COUNT(*)
		 FROM goals
		 WHERE website_id = ? AND name = 'external_link' AND created_at >= ? AND created_at < ?
		 GROUP BY 1 ORDER BY COUNT(*) DESC LIMIT 100`,
		websiteID, since.Format(timeFormat), until.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query link stats: %w", err)
	}
	defer rows.Close()

	var records []models.DimensionRecord
	for rows.Next() {
		var r models.DimensionRecord
		if err := rows.Scan(&r.Label, &r.Visitors); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		if r.Label == "" {
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
