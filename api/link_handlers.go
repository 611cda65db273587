package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/insightly/insightly-go/services"
)

type resolveLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// resolvableShortener whitelists hosts we are willing to expand. An open
// resolver would be a free SSRF proxy.
var resolvableShorteners = map[string]bool{
	"t.co":    true,
	"bit.ly":  true,
	"buff.ly": true,
}

// ResolveLinkHandler handles POST /api/links/resolve, expanding
// shortened referrer URLs (t.co and friends) to their destination.
func (h *Handlers) ResolveLinkHandler(c *gin.Context) {
	var req resolveLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}
	if !resolvableShorteners[strings.ToLower(u.Hostname())] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported shortener"})
		return
	}

	resolved, err := services.ResolveShortLink(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not resolve link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": resolved})
}
