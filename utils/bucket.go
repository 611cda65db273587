package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported aggregation durations. Rolling multi-day views bucket per
// day; 24-hour style views bucket per hour.
var validDurations = map[string]bool{
	"24h":       true,
	"today":     true,
	"yesterday": true,
	"7d":        true,
	"30d":       true,
}

// IsValidDuration reports whether d names a known aggregation window.
func IsValidDuration(d string) bool {
	return validDurations[d]
}

// IsDayGrained reports whether duration buckets per day rather than per hour.
func IsDayGrained(duration string) bool {
	return duration == "7d" || duration == "30d"
}

// FormatHourKey formats a time as an hour key
func FormatHourKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d-%02d", t.Year(), t.Month(), t.Day(), t.Hour())
}

// FormatDayKey formats a time as a day key
func FormatDayKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

// ParseHourKeyToDate parses an hour key back to a time
func ParseHourKeyToDate(hourKey string) (time.Time, error) {
	parts := strings.Split(hourKey, "-")
	if len(parts) != 4 {
		return time.Time{}, fmt.Errorf("invalid hour key format: %s", hourKey)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in hour key: %s", hourKey)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in hour key: %s", hourKey)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in hour key: %s", hourKey)
	}

	hour, err := strconv.Atoi(parts[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in hour key: %s", hourKey)
	}

	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC), nil
}

// BucketNameFor returns the bucket name covering t for the given
// duration: a day key for rolling views, an hour key otherwise.
func BucketNameFor(duration string, t time.Time) string {
	if IsDayGrained(duration) {
		return FormatDayKey(t.UTC())
	}
	return FormatHourKey(t.UTC())
}

// WindowFor returns the [since, until) time window covered by duration,
// relative to now.
func WindowFor(duration string, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch duration {
	case "today":
		return midnight, now
	case "yesterday":
		return midnight.Add(-24 * time.Hour), midnight
	case "7d":
		return now.Add(-7 * 24 * time.Hour), now
	case "30d":
		return now.Add(-30 * 24 * time.Hour), now
	default: // 24h
		return now.Add(-24 * time.Hour), now
	}
}
