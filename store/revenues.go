package store

import (
	"context"
	"fmt"
	"time"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// InsertRevenue writes one revenue row. Rows are immutable once created.
func (s *Store) InsertRevenue(ctx context.Context, r *models.Revenue) error {
	if r.ID == "" {
		r.ID = utils.GenerateULID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO revenues
		 (id, website_id, session_id, visitor_id, revenue, renewal, refunded, sales, event_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.WebsiteID, r.SessionID, r.VisitorID,
		r.Revenue, r.Renewal, r.Refunded, r.Sales, r.EventType,
		r.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert revenue: %w", err)
	}
	return nil
}

// TotalRevenue sums revenue over the duration window.
func (s *Store) TotalRevenue(ctx context.Context, websiteID, duration string, now time.Time) (float64, error) {
	since, until := utils.WindowFor(duration, now)

	var total float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(revenue), 0) FROM revenues
		 WHERE website_id = ? AND created_at >= ? AND created_at < ?`,
		websiteID, since.Format(timeFormat), until.Format(timeFormat)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}
