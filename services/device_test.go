package services

import "testing"

func TestResolveDeviceDesktopChrome(t *testing.T) {
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	info := ResolveDevice(ua, 1920)

	if info.Browser != "Chrome" {
		t.Fatalf("want Chrome, got %q", info.Browser)
	}
	if info.Device != DeviceDesktop {
		t.Fatalf("want desktop, got %q", info.Device)
	}
}

func TestResolveDeviceIPhone(t *testing.T) {
	ua := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	info := ResolveDevice(ua, 390)

	if info.Device != DeviceMobile {
		t.Fatalf("want mobile, got %q", info.Device)
	}
	if info.OS != "iOS" {
		t.Fatalf("want iOS alias, got %q", info.OS)
	}
}

func TestResolveDeviceIPad(t *testing.T) {
	ua := "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	info := ResolveDevice(ua, 1024)

	if info.Device != DeviceTablet {
		t.Fatalf("want tablet, got %q", info.Device)
	}
}

func TestResolveDeviceMacAlias(t *testing.T) {
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	info := ResolveDevice(ua, 1440)

	if info.OS != "macOS" {
		t.Fatalf("want macOS alias, got %q", info.OS)
	}
}

func TestViewportFallback(t *testing.T) {
	// A generic UA the parser cannot classify falls back to width.
	ua := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Safari/537.36"

	if got := ResolveDevice(ua, 375).Device; got != DeviceMobile {
		t.Fatalf("width 375: want mobile, got %q", got)
	}
	if got := ResolveDevice(ua, 900).Device; got != DeviceTablet {
		t.Fatalf("width 900: want tablet, got %q", got)
	}
	if got := ResolveDevice(ua, 1920).Device; got != DeviceDesktop {
		t.Fatalf("width 1920: want desktop, got %q", got)
	}
}
