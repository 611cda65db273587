package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/insightly/insightly-go/models"
)

type createWebsiteRequest struct {
	Name         string `json:"name" binding:"required"`
	Domain       string `json:"domain" binding:"required"`
	StripeAPIKey string `json:"stripeApiKey"`
	PolarAPIKey  string `json:"polarApiKey"`
	DodoAPIKey   string `json:"dodoApiKey"`
}

// CreateWebsiteHandler handles POST /api/websites. A welcome email with
// the tracking snippet is sent best-effort.
func (h *Handlers) CreateWebsiteHandler(c *gin.Context) {
	var req createWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain := strings.ToLower(strings.TrimSpace(req.Domain))
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "http://")
	domain = strings.TrimSuffix(domain, "/")
	if domain == "" || strings.ContainsAny(domain, " /") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain"})
		return
	}

	website := &models.Website{
		UserID:       c.GetString("userId"),
		Name:         strings.TrimSpace(req.Name),
		Domain:       domain,
		StripeAPIKey: req.StripeAPIKey,
		PolarAPIKey:  req.PolarAPIKey,
		DodoAPIKey:   req.DodoAPIKey,
	}
	if err := h.Store.CreateWebsite(c.Request.Context(), website); err != nil {
		log.Printf("ERROR: failed to create website: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if h.Email != nil {
		email := c.GetString("userEmail")
		if email != "" {
			if err := h.Email.SendWebsiteWelcomeEmail(website.Name, website.ID, website.Domain, email); err != nil {
				log.Printf("WARNING: welcome email not sent for website %s: %v", website.ID, err)
			}
		}
	}

	c.JSON(http.StatusCreated, website)
}

// ListWebsitesHandler handles GET /api/websites.
func (h *Handlers) ListWebsitesHandler(c *gin.Context) {
	websites, err := h.Store.ListWebsitesByUser(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		log.Printf("ERROR: failed to list websites: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if websites == nil {
		websites = []*models.Website{}
	}
	c.JSON(http.StatusOK, gin.H{"websites": websites})
}
