package store

import (
	"context"
	"fmt"
	"time"
)

// MarkPaymentProcessed durably claims a provider payment id. It returns
// true exactly once per id; later calls (retries, duplicated
// confirmations, other devices) return false. This replaces reliance on
// the client's session-storage guard alone.
func (s *Store) MarkPaymentProcessed(ctx context.Context, provider, paymentID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO payment_idempotency (payment_id, provider, processed_at) VALUES (?, ?, ?)`,
		paymentID, provider, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return false, fmt.Errorf("failed to claim payment id: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
