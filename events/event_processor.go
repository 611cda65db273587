// Package events implements the ingestion pipeline: one inbound
// tracking payload in, a normalized row plus best-effort side effects
// (provider reconciliation, cache increments) out.
package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"

	"github.com/insightly/insightly-go/cache"
	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/providers"
	"github.com/insightly/insightly-go/services"
	"github.com/insightly/insightly-go/store"
	"github.com/insightly/insightly-go/utils"
)

// Classification sentinels: handlers map these to a client-error
// status; anything else is a server fault.
var (
	ErrUnregisteredWebsite = errors.New("website is not registered -- register your website before sending events")
	ErrInvalidEvent        = errors.New("invalid event payload")
)

// RequestMeta carries request-scoped context the payload itself lacks.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// EventProcessor coordinates event ingestion across the store, the
// aggregation cache and the payment providers.
type EventProcessor struct {
	store      *store.Store
	cache      *cache.Manager
	reconciler *providers.Reconciler
	geo        *services.GeoResolver
}

// NewEventProcessor creates a new event processor.
func NewEventProcessor(s *store.Store, c *cache.Manager, r *providers.Reconciler, g *services.GeoResolver) *EventProcessor {
	return &EventProcessor{store: s, cache: c, reconciler: r, geo: g}
}

// ProcessEvent handles one inbound tracking payload end to end. The
// primary write (event/goal/revenue row) decides success; cache and
// provider side channels degrade to logged no-ops.
func (ep *EventProcessor) ProcessEvent(ctx context.Context, payload *models.EventPayload, meta RequestMeta) error {
	// The script gates bots before sending, but a direct POST from an
	// automation tool bypasses it; re-check here.
	if utils.IsBotUserAgent(meta.UserAgent) {
		log.Printf("DEBUG: dropping bot event for website %s (ua=%q)", payload.WebsiteID, meta.UserAgent)
		return nil
	}

	website, err := ep.store.GetWebsiteByID(ctx, payload.WebsiteID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("website %s: %w", payload.WebsiteID, ErrUnregisteredWebsite)
	}
	if err != nil {
		return err
	}

	// Payment confirmation ids ride along in extraData; reconciliation
	// is best-effort and never aborts event recording.
	var revenue float64
	if len(payload.ExtraData) > 0 {
		revenue = ep.reconciler.Dispatch(ctx, website, payload)
	}

	if payload.Type == "custom" {
		return ep.processGoal(ctx, payload)
	}

	device := services.ResolveDevice(meta.UserAgent, payload.Viewport.Width)
	loc := ep.geo.Resolve(meta.ClientIP)

	event := &models.Event{
		WebsiteID:   website.ID,
		Page:        pagePath(payload.Href),
		VisitorID:   payload.VisitorID,
		SessionID:   payload.SessionID,
		Type:        payload.Type,
		Referrer:    utils.ReferrerHostname(payload.Referrer),
		Browser:     device.Browser,
		OS:          device.OS,
		Device:      device.Device,
		CountryCode: loc.CountryCode,
		Region:      loc.Region,
		City:        loc.City,
	}
	if err := ep.store.InsertEvent(ctx, event); err != nil {
		return err
	}

	if payload.Type == "purchase" {
		revenue += ep.recordDirectPurchase(ctx, payload)
	}

	data := models.DimensionData{
		Page:        event.Page,
		Referrer:    event.Referrer,
		CountryCode: event.CountryCode,
		Region:      event.Region,
		City:        event.City,
		Browser:     event.Browser,
		OS:          event.OS,
		Device:      event.Device,
	}

	ep.updateCache(ctx, &models.CacheUpdate{
		WebsiteID: website.ID,
		Type:      cache.TypeVisitors,
		Data:      data,
	})

	if revenue > 0 {
		ep.updateCache(ctx, &models.CacheUpdate{
			WebsiteID: website.ID,
			Type:      cache.TypeRevenues,
			Revenue:   revenue,
			Data:      data,
		})
	}

	return nil
}

// recordDirectPurchase stores a revenue row for purchase events that
// report their amount (in cents) directly instead of via a provider.
func (ep *EventProcessor) recordDirectPurchase(ctx context.Context, payload *models.EventPayload) float64 {
	cents, err := strconv.ParseInt(payload.ExtraData["amount"], 10, 64)
	if err != nil || cents <= 0 {
		return 0
	}

	revenue := math.Round(float64(cents) / 100)
	err = ep.store.InsertRevenue(ctx, &models.Revenue{
		WebsiteID: payload.WebsiteID,
		SessionID: payload.SessionID,
		VisitorID: payload.VisitorID,
		Revenue:   revenue,
		Sales:     1,
		EventType: "purchase",
	})
	if err != nil {
		log.Printf("ERROR: failed to record direct purchase for website %s: %v", payload.WebsiteID, err)
		return 0
	}
	return revenue
}

// updateCache applies an increment, swallowing failures: ingestion
// success is never conditioned on cache success.
func (ep *EventProcessor) updateCache(ctx context.Context, update *models.CacheUpdate) {
	if err := ep.cache.UpdateCache(ctx, update); err != nil {
		log.Printf("ERROR: cache update failed for website %s: %v", update.WebsiteID, err)
	}
}

// pagePath reduces the full href to its pathname.
func pagePath(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
