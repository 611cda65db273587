package cache

import "strings"

// Icon URLs are computed once, when a dimension record is first created,
// and stored alongside the record so dashboards never re-derive them.

const (
	flagCDN        = "https://flagcdn.com/24x18/"
	browserLogoCDN = "https://cdn.jsdelivr.net/gh/alrra/browser-logos/src/"
	osLogoCDN      = "https://cdn.simpleicons.org/"
)

// IconForCountry returns a flag icon URL for an ISO country code.
func IconForCountry(countryCode string) string {
	if countryCode == "" {
		return ""
	}
	return flagCDN + strings.ToLower(countryCode) + ".png"
}

// IconForBrowser returns a browser logo URL for a normalized browser name.
func IconForBrowser(browser string) string {
	if browser == "" {
		return ""
	}
	slug := strings.ToLower(strings.ReplaceAll(browser, " ", "-"))
	return browserLogoCDN + slug + "/" + slug + "_64x64.png"
}

// IconForOS returns an OS logo URL for a normalized OS name.
func IconForOS(os string) string {
	if os == "" {
		return ""
	}
	return osLogoCDN + strings.ToLower(strings.ReplaceAll(os, " ", ""))
}
