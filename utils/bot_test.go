package utils

import "testing"

func TestIsBotUserAgent(t *testing.T) {
	bots := []string{
		"",
		"curl/8.1.2",
		"Mozilla/5.0 (X11; Linux x86_64) HeadlessChrome/120.0.0.0",
		"python-requests/2.31.0",
		"Go-http-client/1.1",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"short",
	}
	for _, ua := range bots {
		if !IsBotUserAgent(ua) {
			t.Fatalf("want bot for %q", ua)
		}
	}

	humans := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	}
	for _, ua := range humans {
		if IsBotUserAgent(ua) {
			t.Fatalf("want human for %q", ua)
		}
	}
}
