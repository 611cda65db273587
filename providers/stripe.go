package providers

import (
	"context"
	"fmt"
	"log"
	"math"

	stripe "github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"

	"github.com/insightly/insightly-go/models"
)

// HandleStripePaymentLinks attaches visitor/session ids to a Stripe
// checkout and records the revenue locally. Only subscription-mode
// checkouts get provider-side metadata patched (one-time payments close
// before metadata can attach); the local revenue row is recorded for
// either mode, guarded by the durable idempotency table.
func (r *Reconciler) HandleStripePaymentLinks(ctx context.Context, website *models.Website, visitorID, sessionID, checkoutID string) (float64, error) {
	if website.StripeAPIKey == "" {
		log.Printf("DEBUG: website %s has no Stripe key, skipping reconciliation for %s", website.ID, checkoutID)
		return 0, nil
	}

	sc := &stripeclient.API{}
	sc.Init(website.StripeAPIKey, nil)

	cs, err := sc.CheckoutSessions.Get(checkoutID, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch checkout session: %w", err)
	}

	alreadyAttributed := cs.Metadata[metaSessionKey] != "" || cs.Metadata[metaVisitorKey] != ""

	if !alreadyAttributed && cs.Mode == stripe.CheckoutSessionModeSubscription && cs.Subscription != nil {
		params := &stripe.SubscriptionParams{}
		params.Context = ctx
		params.AddMetadata(metaVisitorKey, visitorID)
		params.AddMetadata(metaSessionKey, sessionID)
		if _, err := sc.Subscriptions.Update(cs.Subscription.ID, params); err != nil {
			// Metadata patch failure must not cost us the revenue row.
			log.Printf("WARNING: failed to patch Stripe subscription %s metadata: %v", cs.Subscription.ID, err)
		}
	}

	first, err := r.store.MarkPaymentProcessed(ctx, "stripe", cs.ID)
	if err != nil {
		return 0, err
	}
	if !first {
		log.Printf("DEBUG: Stripe checkout %s already recorded, skipping revenue row", cs.ID)
		return 0, nil
	}

	revenue := math.Round(float64(cs.AmountTotal) / 100)
	err = r.store.InsertRevenue(ctx, &models.Revenue{
		WebsiteID: website.ID,
		SessionID: sessionID,
		VisitorID: visitorID,
		Revenue:   revenue,
		Sales:     1,
		EventType: "purchase",
	})
	if err != nil {
		return 0, err
	}
	return revenue, nil
}
