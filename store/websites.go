package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// CreateWebsite registers a tracked site for a user.
func (s *Store) CreateWebsite(ctx context.Context, w *models.Website) error {
	if w.ID == "" {
		w.ID = utils.GenerateULID()
	}
	w.CreatedAt = time.Now().UTC()

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO websites (id, user_id, domain, name, stripe_api_key, polar_api_key, dodo_api_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Domain, w.Name, w.StripeAPIKey, w.PolarAPIKey, w.DodoAPIKey,
		w.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert website: %w", err)
	}
	return nil
}

// GetWebsiteByID resolves a website record, provider keys included.
func (s *Store) GetWebsiteByID(ctx context.Context, id string) (*models.Website, error) {
	var w models.Website
	var createdAt string

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, domain, name, stripe_api_key, polar_api_key, dodo_api_key, created_at
		 FROM websites WHERE id = ?`, id).
		Scan(&w.ID, &w.UserID, &w.Domain, &w.Name, &w.StripeAPIKey, &w.PolarAPIKey, &w.DodoAPIKey, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query website: %w", err)
	}

	w.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return &w, nil
}

// ListWebsitesByUser returns the user's registered sites.
func (s *Store) ListWebsitesByUser(ctx context.Context, userID string) ([]*models.Website, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, domain, name, created_at FROM websites WHERE user_id = ? ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query websites: %w", err)
	}
	defer rows.Close()

	var websites []*models.Website
	for rows.Next() {
		var w models.Website
		var createdAt string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Domain, &w.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		w.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		websites = append(websites, &w)
	}
	return websites, rows.Err()
}
