package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insightly/insightly-go/cache"
	"github.com/insightly/insightly-go/config"
	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/store"
	"github.com/insightly/insightly-go/utils"
)

// authorizedWebsite resolves the websiteId query param and verifies the
// authenticated user owns it. Writes the error response itself on failure.
func (h *Handlers) authorizedWebsite(c *gin.Context) (*models.Website, bool) {
	websiteID := c.Query("websiteId")
	if websiteID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websiteId is required"})
		return nil, false
	}

	website, err := h.Store.GetWebsiteByID(c.Request.Context(), websiteID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "website not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	if website.UserID != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your website"})
		return nil, false
	}

	return website, true
}

// requireDuration validates the duration query param (default "24h").
func requireDuration(c *gin.Context) (string, bool) {
	duration := c.DefaultQuery("duration", "24h")
	if !utils.IsValidDuration(duration) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return "", false
	}
	return duration, true
}

// GetMainAnalytics handles GET /api/analytics/main. Cached records are
// served as-is; on a miss the time series is rebuilt from the store and
// written back so subsequent pageviews can increment it in place.
func (h *Handlers) GetMainAnalytics(c *gin.Context) {
	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}
	duration, ok := requireDuration(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if rec, hit := h.Cache.GetMainRecord(ctx, website.ID, duration); hit {
		c.JSON(http.StatusOK, rec)
		return
	}

	dataset, err := h.Store.MainTimeseries(ctx, website.ID, duration, time.Now().UTC())
	if err != nil {
		log.Printf("ERROR: timeseries rebuild failed for website %s: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rec := &models.MainCacheRecord{
		Duration:   duration,
		Dataset:    dataset,
		ComputedAt: time.Now().UTC(),
	}
	h.Cache.SetMainRecord(ctx, website.ID, rec, config.AnalyticsCacheTTL)
	c.JSON(http.StatusOK, rec)
}

// othersDimensions orders the breakdown queries of a full rebuild.
var othersDimensions = []string{"page", "referrer", "country", "region", "city", "browser", "os", "device"}

// GetOthersAnalytics handles GET /api/analytics/others.
func (h *Handlers) GetOthersAnalytics(c *gin.Context) {
	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}
	duration, ok := requireDuration(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if rec, hit := h.Cache.GetOthersRecord(ctx, website.ID, duration); hit {
		c.JSON(http.StatusOK, rec)
		return
	}

	now := time.Now().UTC()
	var dataset models.OthersDataset
	for _, dim := range othersDimensions {
		records, err := h.Store.Breakdown(ctx, website.ID, dim, duration, now)
		if err != nil {
			log.Printf("ERROR: %s breakdown rebuild failed for website %s: %v", dim, website.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		assignDimension(&dataset, dim, records)
	}

	rec := &models.OthersCacheRecord{
		Duration:   duration,
		Dataset:    dataset,
		ComputedAt: now,
	}
	h.Cache.SetOthersRecord(ctx, website.ID, rec, config.AnalyticsCacheTTL)
	c.JSON(http.StatusOK, rec)
}

// assignDimension fills one dataset slot, attaching icon URLs where the
// dimension has them.
func assignDimension(dataset *models.OthersDataset, dim string, records []models.DimensionRecord) {
	switch dim {
	case "page":
		dataset.PageData = records
	case "referrer":
		dataset.ReferrerData = records
	case "country":
		for i := range records {
			records[i].Icon = cache.IconForCountry(records[i].Label)
		}
		dataset.CountryData = records
	case "region":
		dataset.RegionData = records
	case "city":
		dataset.CityData = records
	case "browser":
		for i := range records {
			records[i].Icon = cache.IconForBrowser(records[i].Label)
		}
		dataset.BrowserData = records
	case "os":
		for i := range records {
			records[i].Icon = cache.IconForOS(records[i].Label)
		}
		dataset.OSData = records
	case "device":
		dataset.DeviceData = records
	}
}

// GetGoalsAnalytics handles GET /api/analytics/goals. Goals are not
// duration-scoped; the record holds all-time conversion counts.
func (h *Handlers) GetGoalsAnalytics(c *gin.Context) {
	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if rec, hit := h.Cache.GetGoalsRecord(ctx, website.ID); hit {
		c.JSON(http.StatusOK, rec)
		return
	}

	dataset, err := h.Store.GoalCounts(ctx, website.ID)
	if err != nil {
		log.Printf("ERROR: goal counts rebuild failed for website %s: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rec := &models.GoalsCacheRecord{
		Dataset:    dataset,
		ComputedAt: time.Now().UTC(),
	}
	h.Cache.SetGoalsRecord(ctx, website.ID, rec, config.AnalyticsCacheTTL)
	c.JSON(http.StatusOK, rec)
}

// GetLinkAnalytics handles GET /api/analytics/links, the outbound click
// breakdown. Always computed from the store; click volume is low enough
// that caching buys nothing.
func (h *Handlers) GetLinkAnalytics(c *gin.Context) {
	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}
	duration, ok := requireDuration(c)
	if !ok {
		return
	}

	records, err := h.Store.LinkStats(c.Request.Context(), website.ID, duration, time.Now().UTC())
	if err != nil {
		log.Printf("ERROR: link stats failed for website %s: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dataset": records})
}

// GetActiveVisitors handles GET /api/analytics/active, counting sessions
// with a heartbeat inside the liveness window.
func (h *Handlers) GetActiveVisitors(c *gin.Context) {
	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}

	count, err := h.Store.ActiveSessions(c.Request.Context(), website.ID, config.ActiveWindow)
	if err != nil {
		log.Printf("ERROR: active session count failed for website %s: %v", website.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": count})
}
