package providers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/insightly/insightly-go/models"
)

const dodoAPIBase = "https://api.dodopayments.com"

type dodoSubscription struct {
	SubscriptionID        string            `json:"subscription_id"`
	RecurringPreTaxAmount int64             `json:"recurring_pre_tax_amount"`
	Metadata              map[string]string `json:"metadata"`
}

type dodoPayment struct {
	PaymentID   string            `json:"payment_id"`
	TotalAmount int64             `json:"total_amount"`
	Metadata    map[string]string `json:"metadata"`
}

// HandleDodoSubscriptionLink attaches visitor/session ids to a Dodo
// subscription and records the recurring amount as a local revenue row.
func (r *Reconciler) HandleDodoSubscriptionLink(ctx context.Context, website *models.Website, visitorID, sessionID, subscriptionID string) (float64, error) {
	if website.DodoAPIKey == "" {
		log.Printf("DEBUG: website %s has no Dodo key, skipping reconciliation for %s", website.ID, subscriptionID)
		return 0, nil
	}

	var sub dodoSubscription
	url := fmt.Sprintf("%s/subscriptions/%s", dodoAPIBase, subscriptionID)
	if err := r.doJSON(ctx, http.MethodGet, url, website.DodoAPIKey, nil, &sub); err != nil {
		return 0, fmt.Errorf("failed to fetch Dodo subscription: %w", err)
	}

	if err := r.patchDodoMetadata(ctx, website, url, sub.Metadata, visitorID, sessionID); err != nil {
		log.Printf("WARNING: failed to patch Dodo subscription %s metadata: %v", subscriptionID, err)
	}

	return r.recordDodoRevenue(ctx, website, visitorID, sessionID, subscriptionID, sub.RecurringPreTaxAmount, "renewal")
}

// HandleDodoPaymentLink attaches visitor/session ids to a one-time Dodo
// payment and records its amount as a local revenue row.
func (r *Reconciler) HandleDodoPaymentLink(ctx context.Context, website *models.Website, visitorID, sessionID, paymentID string) (float64, error) {
	if website.DodoAPIKey == "" {
		log.Printf("DEBUG: website %s has no Dodo key, skipping reconciliation for %s", website.ID, paymentID)
		return 0, nil
	}

	var payment dodoPayment
	url := fmt.Sprintf("%s/payments/%s", dodoAPIBase, paymentID)
	if err := r.doJSON(ctx, http.MethodGet, url, website.DodoAPIKey, nil, &payment); err != nil {
		return 0, fmt.Errorf("failed to fetch Dodo payment: %w", err)
	}

	if err := r.patchDodoMetadata(ctx, website, url, payment.Metadata, visitorID, sessionID); err != nil {
		log.Printf("WARNING: failed to patch Dodo payment %s metadata: %v", paymentID, err)
	}

	return r.recordDodoRevenue(ctx, website, visitorID, sessionID, paymentID, payment.TotalAmount, "purchase")
}

// patchDodoMetadata merges attribution ids into the object's metadata
// unless attribution is already present.
func (r *Reconciler) patchDodoMetadata(ctx context.Context, website *models.Website, url string, existing map[string]string, visitorID, sessionID string) error {
	if existing[metaVisitorKey] != "" || existing[metaSessionKey] != "" {
		return nil
	}

	merged := make(map[string]string, len(existing)+2)
	for k, v := range existing {
		merged[k] = v
	}
	merged[metaVisitorKey] = visitorID
	merged[metaSessionKey] = sessionID

	body := map[string]any{"metadata": merged}
	return r.doJSON(ctx, http.MethodPatch, url, website.DodoAPIKey, body, nil)
}

func (r *Reconciler) recordDodoRevenue(ctx context.Context, website *models.Website, visitorID, sessionID, objectID string, amountCents int64, eventType string) (float64, error) {
	first, err := r.store.MarkPaymentProcessed(ctx, "dodo", objectID)
	if err != nil {
		return 0, err
	}
	if !first {
		log.Printf("DEBUG: Dodo object %s already recorded, skipping revenue row", objectID)
		return 0, nil
	}

	revenue := math.Round(float64(amountCents) / 100)
	row := &models.Revenue{
		WebsiteID: website.ID,
		SessionID: sessionID,
		VisitorID: visitorID,
		Sales:     1,
		EventType: eventType,
	}
	if eventType == "renewal" {
		row.Renewal = revenue
	}
	row.Revenue = revenue

	if err := r.store.InsertRevenue(ctx, row); err != nil {
		return 0, err
	}
	return revenue, nil
}
