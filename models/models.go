// Package models defines row and payload types shared across the service.
package models

import "time"

// Website is a tracked site registered by a user.
type Website struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Domain       string    `json:"domain"`
	Name         string    `json:"name"`
	StripeAPIKey string    `json:"-"`
	PolarAPIKey  string    `json:"-"`
	DodoAPIKey   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User owns websites and authenticates against the dashboard APIs.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event is one pageview/purchase/custom action. Rows are immutable once
// written; (VisitorID, SessionID) identifies a continuous browsing session.
type Event struct {
	ID          string    `json:"id"`
	WebsiteID   string    `json:"websiteId"`
	Page        string    `json:"page"`
	VisitorID   string    `json:"visitorId"`
	SessionID   string    `json:"sessionId"`
	Type        string    `json:"type"`
	Referrer    string    `json:"referrer"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Device      string    `json:"device"`
	CountryCode string    `json:"countryCode"`
	Region      string    `json:"region"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Revenue is one completed purchase, renewal or refund, attributed to a
// browsing session. Amounts are whole currency units (provider cents
// divided by 100 and rounded).
type Revenue struct {
	ID        string    `json:"id"`
	WebsiteID string    `json:"websiteId"`
	SessionID string    `json:"sessionId"`
	VisitorID string    `json:"visitorId"`
	Revenue   float64   `json:"revenue"`
	Renewal   float64   `json:"renewal"`
	Refunded  float64   `json:"refunded"`
	Sales     int       `json:"sales"`
	EventType string    `json:"eventType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Goal is one custom/business event with validated, size-bounded metadata.
type Goal struct {
	ID        string            `json:"id"`
	WebsiteID string            `json:"websiteId"`
	VisitorID string            `json:"visitorId"`
	SessionID string            `json:"sessionId"`
	Name      string            `json:"name"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Heartbeat records session liveness; at most one row exists per
// (website, session, visitor).
type Heartbeat struct {
	ID        string    `json:"id"`
	WebsiteID string    `json:"websiteId"`
	SessionID string    `json:"sessionId"`
	VisitorID string    `json:"visitorId"`
	CreatedAt time.Time `json:"createdAt"`
}
