package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insightly/insightly-go/events"
	"github.com/insightly/insightly-go/models"
	"github.com/insightly/insightly-go/utils"
)

// PostEvent handles POST /api/events, the ingestion endpoint the
// tracking script talks to. The response body is always {"ok": bool};
// the script fire-and-forgets, so errors matter mostly for server logs.
func (h *Handlers) PostEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unreadable body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload models.EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("ERROR: malformed event payload: %v (body=%s)", err, body)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if !utils.IsValidToken(payload.VisitorID) || !utils.IsValidToken(payload.SessionID) {
		log.Printf("DEBUG: rejecting event with malformed tokens for website %s", payload.WebsiteID)
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid visitor or session id"})
		return
	}

	meta := events.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	if err := h.Processor.ProcessEvent(c.Request.Context(), &payload, meta); err != nil {
		log.Printf("ERROR: event processing failed: %v (body=%s)", err, body)
		// Unknown websites and rejected payloads are the sender's
		// fault; everything else (store, side channels) is ours.
		status := http.StatusInternalServerError
		if errors.Is(err, events.ErrUnregisteredWebsite) || errors.Is(err, events.ErrInvalidEvent) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PostHeartbeat handles POST /api/heartbeat. Heartbeats are only
// accepted for sessions that have already recorded an event, so a bare
// heartbeat cannot create presence out of nothing.
func (h *Handlers) PostHeartbeat(c *gin.Context) {
	var payload models.HeartbeatPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if !utils.IsValidToken(payload.VisitorID) || !utils.IsValidToken(payload.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid visitor or session id"})
		return
	}

	ctx := c.Request.Context()
	seen, err := h.Store.HasEvent(ctx, payload.WebsiteID, payload.VisitorID, payload.SessionID)
	if err != nil {
		log.Printf("ERROR: heartbeat event lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}
	if !seen {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no events recorded for this session"})
		return
	}

	if err := h.Store.UpsertHeartbeat(ctx, payload.WebsiteID, payload.SessionID, payload.VisitorID); err != nil {
		log.Printf("ERROR: heartbeat upsert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
