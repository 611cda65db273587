package cache

import "strings"

// Cache key namespace, per website:
//
//	{websiteId}:main:{duration}    time-series records
//	{websiteId}:others:{duration}  dimensional breakdown records
//	{websiteId}:goals              goal conversion record

// MainKey builds the time-series cache key for a duration.
func MainKey(websiteID, duration string) string {
	return websiteID + ":main:" + duration
}

// OthersKey builds the dimensional cache key for a duration.
func OthersKey(websiteID, duration string) string {
	return websiteID + ":others:" + duration
}

// GoalsKey builds the goals cache key.
func GoalsKey(websiteID string) string {
	return websiteID + ":goals"
}

// MainPattern matches every live main record of a website.
func MainPattern(websiteID string) string {
	return websiteID + ":main:*"
}

// OthersPattern matches every live others record of a website.
func OthersPattern(websiteID string) string {
	return websiteID + ":others:*"
}

// GoalsPattern matches the goals record(s) of a website.
func GoalsPattern(websiteID string) string {
	return websiteID + ":goals*"
}

// durationFromKey extracts the duration segment of a main/others key.
func durationFromKey(key string) string {
	idx := strings.LastIndex(key, ":")
	if idx < 0 || idx == len(key)-1 {
		return ""
	}
	return key[idx+1:]
}
