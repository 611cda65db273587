package store

import (
	"context"
	"fmt"
	"time"

	"github.com/insightly/insightly-go/utils"
)

// UpsertHeartbeat records session liveness. At most one row exists per
// (website, session, visitor); repeat beats refresh the timestamp.
func (s *Store) UpsertHeartbeat(ctx context.Context, websiteID, sessionID, visitorID string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO heartbeats (id, website_id, session_id, visitor_id, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(website_id, session_id, visitor_id)
		 DO UPDATE SET created_at = excluded.created_at`,
		utils.GenerateULID(), websiteID, sessionID, visitorID,
		time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to upsert heartbeat: %w", err)
	}
	return nil
}

// ActiveSessions counts sessions with a heartbeat inside the active window.
func (s *Store) ActiveSessions(ctx context.Context, websiteID string, window time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-window).Format(timeFormat)

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM heartbeats WHERE website_id = ? AND created_at >= ?`,
		websiteID, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}
