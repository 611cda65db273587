package models

// Viewport carries the visitor's viewport dimensions, used as a device
// class fallback when the user agent is inconclusive.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// EventPayload is the body of POST /api/events as sent by the tracking
// script. ExtraData bundles ad click ids and payment confirmation ids.
type EventPayload struct {
	WebsiteID string            `json:"websiteId" binding:"required"`
	Href      string            `json:"href"`
	Referrer  string            `json:"referrer"`
	Viewport  Viewport          `json:"viewport"`
	VisitorID string            `json:"visitorId" binding:"required"`
	SessionID string            `json:"sessionId" binding:"required"`
	Type      string            `json:"type" binding:"required"`
	EventName string            `json:"eventName"`
	ExtraData map[string]string `json:"extraData"`
}

// HeartbeatPayload is the body of POST /api/heartbeat.
type HeartbeatPayload struct {
	WebsiteID string `json:"websiteId" binding:"required"`
	VisitorID string `json:"visitorId" binding:"required"`
	SessionID string `json:"sessionId" binding:"required"`
}
