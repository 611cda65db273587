package utils

import (
	"net/url"
	"strings"
)

// DirectReferrer labels traffic that arrived without a referrer.
const DirectReferrer = "Direct"

// ReferrerHostname reduces a raw document.referrer value to a hostname
// label, or "Direct" when absent/unparseable.
func ReferrerHostname(referrer string) string {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return DirectReferrer
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		// Bare hostnames ("news.ycombinator.com") parse with an empty
		// host; treat the value itself as the label.
		if !strings.ContainsAny(referrer, " /:") {
			return strings.TrimPrefix(referrer, "www.")
		}
		return DirectReferrer
	}

	return strings.TrimPrefix(u.Hostname(), "www.")
}
