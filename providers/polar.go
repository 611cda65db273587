package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/insightly/insightly-go/models"
)

const polarAPIBase = "https://api.polar.sh/v1"

type polarCheckout struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
}

type polarCustomer struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// UpdatePolarCustomer attaches visitor/session ids to the Polar
// customer behind a checkout. Keys are scoped per website because one
// Polar customer may span multiple tracked sites. Revenue rows come
// from Polar's webhook, not from here.
func (r *Reconciler) UpdatePolarCustomer(ctx context.Context, website *models.Website, visitorID, sessionID, checkoutID string) error {
	if website.PolarAPIKey == "" {
		log.Printf("DEBUG: website %s has no Polar key, skipping reconciliation for %s", website.ID, checkoutID)
		return nil
	}

	var checkout polarCheckout
	url := fmt.Sprintf("%s/checkouts/%s", polarAPIBase, checkoutID)
	if err := r.doJSON(ctx, http.MethodGet, url, website.PolarAPIKey, nil, &checkout); err != nil {
		return fmt.Errorf("failed to fetch Polar checkout: %w", err)
	}
	if checkout.CustomerID == "" {
		return fmt.Errorf("Polar checkout %s has no customer attached", checkoutID)
	}

	var customer polarCustomer
	customerURL := fmt.Sprintf("%s/customers/%s", polarAPIBase, checkout.CustomerID)
	if err := r.doJSON(ctx, http.MethodGet, customerURL, website.PolarAPIKey, nil, &customer); err != nil {
		return fmt.Errorf("failed to fetch Polar customer: %w", err)
	}

	visitorKey := fmt.Sprintf("%s_%s", metaVisitorKey, website.ID)
	sessionKey := fmt.Sprintf("%s_%s", metaSessionKey, website.ID)
	if customer.Metadata[visitorKey] != "" || customer.Metadata[sessionKey] != "" {
		return nil
	}

	merged := make(map[string]string, len(customer.Metadata)+2)
	for k, v := range customer.Metadata {
		merged[k] = v
	}
	merged[visitorKey] = visitorID
	merged[sessionKey] = sessionID

	body := map[string]any{"metadata": merged}
	if err := r.doJSON(ctx, http.MethodPatch, customerURL, website.PolarAPIKey, body, nil); err != nil {
		return fmt.Errorf("failed to patch Polar customer: %w", err)
	}
	return nil
}
