package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insightly/insightly-go/web"
)

// ServeScript handles GET /js/script.js. The tracker is embedded at
// build time so the binary ships self-contained.
func ServeScript(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", web.Script)
}
