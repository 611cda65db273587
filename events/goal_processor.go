package events

import (
	"context"
	"fmt"

	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// processGoal short-circuits custom events to goal recording: the
// page/device/geo resolution of the pageview path is skipped entirely.
// Metadata validation is all-or-nothing — an oversized map or a bad
// property name rejects the call without a partial row.
func (ep *EventProcessor) processGoal(ctx context.Context, payload *models.EventPayload) error {
	if payload.EventName == "" {
		return fmt.Errorf("%w: custom events require an eventName", ErrInvalidEvent)
	}

	raw := make(map[string]any, len(payload.ExtraData))
	for k, v := range payload.ExtraData {
		raw[k] = v
	}
	metadata, err := utils.ValidateGoalMetadata(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	goal := &models.Goal{
		WebsiteID: payload.WebsiteID,
		VisitorID: payload.VisitorID,
		SessionID: payload.SessionID,
		Name:      utils.SanitizeValue(payload.EventName),
		Metadata:  metadata,
	}
	if err := ep.store.InsertGoal(ctx, goal); err != nil {
		return err
	}

	// Only the goals key family carries a delta here; the empty
	// dimension data leaves main/others records untouched.
	ep.updateCache(ctx, &models.CacheUpdate{
		WebsiteID: payload.WebsiteID,
		GoalName:  goal.Name,
	})

	return nil
}
