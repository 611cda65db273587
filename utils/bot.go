package utils

import "strings"

// botSignatures mirrors the tracking script's known bot/tool list. The
// gate runs client-side before any network call and again here so a
// spoofed or direct POST from an automation tool is still dropped.
var botSignatures = []string{
	"headlesschrome",
	"phantomjs",
	"slimerjs",
	"selenium",
	"puppeteer",
	"playwright",
	"webdriver",
	"electron",
	"cypress",
	"bot",
	"spider",
	"crawler",
	"scraper",
	"curl/",
	"wget/",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"java/",
	"okhttp",
	"httpclient",
	"libwww",
	"lighthouse",
	"pingdom",
	"pagespeed",
}

// IsBotUserAgent reports whether ua belongs to a known bot, headless
// browser or HTTP client library. Empty or implausibly short user
// agents are treated as bots.
func IsBotUserAgent(ua string) bool {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if len(ua) < 10 {
		return true
	}
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}
