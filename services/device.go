// Package services provides request-metadata resolution (device, geo)
// and external link resolution helpers.
package services

import (
	"strings"

	"github.com/mssola/useragent"
)

// DeviceInfo holds normalized browser/OS names and a device class.
type DeviceInfo struct {
	Browser string
	OS      string
	Device  string
}

// Device classes.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

var browserAliases = map[string]string{
	"Internet Explorer": "IE",
	"Chromium":          "Chrome",
}

var osAliases = map[string]string{
	"Mac OS X":  "macOS",
	"iPhone OS": "iOS",
	"CPU OS":    "iOS",
}

// ResolveDevice derives browser, OS and device class from the request's
// User-Agent, with viewport width as the device fallback heuristic when
// the parsed UA is inconclusive: <=768px mobile, <=1024px tablet,
// otherwise desktop.
func ResolveDevice(uaString string, viewportWidth int) DeviceInfo {
	ua := useragent.New(uaString)

	browser, _ := ua.Browser()
	if alias, ok := browserAliases[browser]; ok {
		browser = alias
	}

	os := ua.OSInfo().Name
	if alias, ok := osAliases[os]; ok {
		os = alias
	}

	return DeviceInfo{
		Browser: browser,
		OS:      os,
		Device:  deviceClass(ua, uaString, viewportWidth),
	}
}

func deviceClass(ua *useragent.UserAgent, uaString string, viewportWidth int) string {
	lower := strings.ToLower(uaString)
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") {
		return DeviceTablet
	}
	if ua.Mobile() {
		return DeviceMobile
	}
	if viewportWidth > 0 {
		switch {
		case viewportWidth <= 768:
			return DeviceMobile
		case viewportWidth <= 1024:
			return DeviceTablet
		}
	}
	return DeviceDesktop
}
