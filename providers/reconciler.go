// Package providers implements best-effort revenue reconciliation
// against payment provider APIs (Stripe, Polar, Dodo). Every helper
// follows the same shape: look up the website's provider key (absent is
// a logged no-op), read the provider object, skip the patch when
// attribution metadata is already attached, patch visitor/session ids
// onto the provider side, and record a local revenue row. Failures are
// logged and swallowed at this boundary — reconciliation never blocks
// or fails the ingestion response.
package providers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/insightly/insightly-go/config"
	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/store"
)

// Metadata keys attached to provider-side objects.
const (
	metaVisitorKey = "insightly_visitor_id"
	metaSessionKey = "insightly_session_id"
)

// Reconciler dispatches payment confirmations to provider helpers.
type Reconciler struct {
	store      *store.Store
	httpClient *http.Client
}

// NewReconciler builds a reconciler over the given store.
func NewReconciler(s *store.Store) *Reconciler {
	return &Reconciler{
		store:      s,
		httpClient: &http.Client{Timeout: config.ProviderTimeout},
	}
}

// providerFor picks the reconciliation target from the payment
// confirmation ids the tracking script collected into extraData. A
// Stripe checkout session id is recognized by its cs_ prefix;
// Lemonsqueezy order ids are collected client-side but have no read-API
// helper, so they fall through to none.
func providerFor(extra map[string]string) (provider, objectID string) {
	if id := extra["session_id"]; strings.HasPrefix(id, "cs_") {
		return "stripe", id
	}
	if id := extra["checkout_id"]; id != "" {
		return "polar", id
	}
	if id := extra["subscription_id"]; id != "" {
		return "dodo_subscription", id
	}
	if id := extra["payment_id"]; id != "" {
		return "dodo_payment", id
	}
	return "", ""
}

// Dispatch runs the matching provider helper for a payment confirmation
// carried in the event payload. It returns the revenue recorded locally
// (zero when nothing was recorded) so the caller can feed the cache
// updater a revenue delta. Helper errors never propagate.
func (r *Reconciler) Dispatch(ctx context.Context, website *models.Website, payload *models.EventPayload) float64 {
	provider, objectID := providerFor(payload.ExtraData)
	if provider == "" {
		return 0
	}

	var revenue float64
	var err error

	switch provider {
	case "stripe":
		revenue, err = r.HandleStripePaymentLinks(ctx, website, payload.VisitorID, payload.SessionID, objectID)
	case "polar":
		err = r.UpdatePolarCustomer(ctx, website, payload.VisitorID, payload.SessionID, objectID)
	case "dodo_subscription":
		revenue, err = r.HandleDodoSubscriptionLink(ctx, website, payload.VisitorID, payload.SessionID, objectID)
	case "dodo_payment":
		revenue, err = r.HandleDodoPaymentLink(ctx, website, payload.VisitorID, payload.SessionID, objectID)
	}

	if err != nil {
		log.Printf("ERROR: %s reconciliation failed for website %s object %s: %v",
			provider, website.ID, objectID, err)
		return 0
	}
	return revenue
}
