package utils

import (
	"testing"
	"time"
)

func TestBucketNameFor(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)

	if got := BucketNameFor("24h", at); got != "2026-03-07-09" {
		t.Fatalf("hour bucket: want 2026-03-07-09, got %s", got)
	}
	if got := BucketNameFor("7d", at); got != "2026-03-07" {
		t.Fatalf("day bucket: want 2026-03-07, got %s", got)
	}
}

func TestHourKeyRoundTrip(t *testing.T) {
	at := time.Date(2026, 11, 2, 23, 0, 0, 0, time.UTC)
	key := FormatHourKey(at)
	back, err := ParseHourKeyToDate(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(at) {
		t.Fatalf("want %v, got %v", at, back)
	}
}

func TestParseHourKeyRejectsMalformed(t *testing.T) {
	for _, key := range []string{"", "2026-03-07", "2026-03-07-xx", "a-b-c-d"} {
		if _, err := ParseHourKeyToDate(key); err == nil {
			t.Fatalf("want error for %q", key)
		}
	}
}

func TestWindowFor(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC)

	since, until := WindowFor("today", now)
	if since != time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC) || !until.Equal(now) {
		t.Fatalf("today window wrong: [%v, %v)", since, until)
	}

	since, until = WindowFor("yesterday", now)
	if since != time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC) ||
		until != time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("yesterday window wrong: [%v, %v)", since, until)
	}

	since, until = WindowFor("30d", now)
	if until.Sub(since) != 30*24*time.Hour {
		t.Fatalf("30d window wrong: [%v, %v)", since, until)
	}
}

func TestIsValidDuration(t *testing.T) {
	for _, d := range []string{"24h", "today", "yesterday", "7d", "30d"} {
		if !IsValidDuration(d) {
			t.Fatalf("want valid: %s", d)
		}
	}
	for _, d := range []string{"", "1h", "90d", "week"} {
		if IsValidDuration(d) {
			t.Fatalf("want invalid: %s", d)
		}
	}
}
