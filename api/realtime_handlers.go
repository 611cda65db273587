package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/insightly/insightly-go/config"
	"github.com/insightly/insightly-go/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards run on their own origins; ownership is enforced via
	// the token below, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const activePushInterval = 5 * time.Second

// ActiveVisitorsStream handles GET /api/realtime/active, a websocket
// that pushes the live session count on a fixed tick. Browsers cannot
// set headers on websocket dials, so the JWT rides in the query string.
func (h *Handlers) ActiveVisitorsStream(c *gin.Context) {
	claims, err := utils.ValidateJWT(c.Query("token"), config.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	userID, _ := claims["userId"].(string)
	c.Set("userId", userID)

	website, ok := h.authorizedWebsite(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain reads so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(activePushInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		count, err := h.Store.ActiveSessions(ctx, website.ID, config.ActiveWindow)
		if err != nil {
			log.Printf("ERROR: active session count failed for website %s: %v", website.ID, err)
			return
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(gin.H{"active": count, "at": time.Now().UTC()}); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
