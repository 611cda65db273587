// Package models defines the aggregation cache record shapes.
//
// Records live in Redis as JSON blobs under three key families per
// website: "{id}:main:{duration}" (time series), "{id}:others:{duration}"
// (dimensional breakdowns) and "{id}:goals". Within a record at most one
// entry exists per distinct bucket name / dimension label / goal name;
// writers must find-or-create before incrementing.
package models

import "time"

// =============================================================================
// Main (time series) records
// =============================================================================

// MainBucket is one time bucket of the main time series. Name is a day
// key for rolling 7d/30d views and an hour key for 24h/today/yesterday.
type MainBucket struct {
	Name     string  `json:"name"`
	Visitors int     `json:"visitors"`
	Revenue  float64 `json:"revenue"`
}

// MainCacheRecord is the value stored under "{id}:main:{duration}".
type MainCacheRecord struct {
	Duration   string       `json:"duration"`
	Dataset    []MainBucket `json:"dataset"`
	ComputedAt time.Time    `json:"computedAt"`
}

// =============================================================================
// Others (dimensional) records
// =============================================================================

// DimensionRecord is one labeled entry of a dimension array. Icon is an
// externally hosted icon URL, computed once when the record is created.
type DimensionRecord struct {
	Label    string  `json:"label"`
	Visitors int     `json:"visitors"`
	Revenue  float64 `json:"revenue"`
	Icon     string  `json:"icon,omitempty"`
}

// OthersDataset groups the named dimension arrays of an others record.
type OthersDataset struct {
	PageData     []DimensionRecord `json:"pageData"`
	ReferrerData []DimensionRecord `json:"referrerData"`
	CountryData  []DimensionRecord `json:"countryData"`
	RegionData   []DimensionRecord `json:"regionData"`
	CityData     []DimensionRecord `json:"cityData"`
	BrowserData  []DimensionRecord `json:"browserData"`
	OSData       []DimensionRecord `json:"osData"`
	DeviceData   []DimensionRecord `json:"deviceData"`
}

// OthersCacheRecord is the value stored under "{id}:others:{duration}".
type OthersCacheRecord struct {
	Duration   string        `json:"duration"`
	Dataset    OthersDataset `json:"dataset"`
	ComputedAt time.Time     `json:"computedAt"`
}

// =============================================================================
// Goals records
// =============================================================================

// GoalBucket is one named goal with its conversion count.
type GoalBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GoalsCacheRecord is the value stored under "{id}:goals".
type GoalsCacheRecord struct {
	Dataset    []GoalBucket `json:"dataset"`
	ComputedAt time.Time    `json:"computedAt"`
}

// =============================================================================
// Updater input
// =============================================================================

// DimensionData carries one event's resolved dimensional values.
type DimensionData struct {
	Page        string `json:"page"`
	Referrer    string `json:"referrer"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	City        string `json:"city"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
	Device      string `json:"device"`
}

// CacheUpdate is the input of the incremental cache updater: one event
// (Type "visitors") or one revenue delta (Type "revenues") to apply to
// every live cached aggregation of the website. GoalName is set only for
// custom events and drives the goals key family.
type CacheUpdate struct {
	WebsiteID string        `json:"websiteId"`
	Type      string        `json:"type"`
	Revenue   float64       `json:"revenue,omitempty"`
	GoalName  string        `json:"goalName,omitempty"`
	Data      DimensionData `json:"data"`
}
