package utils

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateGoalMetadataAcceptsCleanProps(t *testing.T) {
	raw := map[string]any{
		"plan":  "pro",
		"seats": 5,
		"trial": true,
	}
	got, err := ValidateGoalMetadata(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["plan"] != "pro" || got["seats"] != "5" || got["trial"] != "true" {
		t.Fatalf("values not stringified as expected: %v", got)
	}
}

func TestValidateGoalMetadataRejectsTooManyProps(t *testing.T) {
	raw := map[string]any{}
	for i := 0; i < 11; i++ {
		raw[fmt.Sprintf("prop_%d", i)] = i
	}
	if _, err := ValidateGoalMetadata(raw); err == nil {
		t.Fatal("want error for 11 properties, got nil")
	}
}

func TestValidateGoalMetadataRejectsBadName(t *testing.T) {
	cases := []string{"UTM Source!", "Plan", "a b", strings.Repeat("x", 33), ""}
	for _, name := range cases {
		if _, err := ValidateGoalMetadata(map[string]any{name: "v"}); err == nil {
			t.Fatalf("want error for property name %q, got nil", name)
		}
	}
}

func TestValidateGoalMetadataIsAllOrNothing(t *testing.T) {
	raw := map[string]any{
		"good": "value",
		"Bad":  "value",
	}
	got, err := ValidateGoalMetadata(raw)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if got != nil {
		t.Fatalf("want nil map on rejection, got %v", got)
	}
}

func TestSanitizeValueStripsMarkup(t *testing.T) {
	got := SanitizeValue(`<script>alert(1)</script>`)
	for _, ch := range []string{"<", ">", `"`, "'", "&"} {
		if strings.Contains(got, ch) {
			t.Fatalf("sanitized value still contains %q: %q", ch, got)
		}
	}
}

func TestSanitizeValueStripsProtocols(t *testing.T) {
	cases := map[string]string{
		"javascript:alert(1)":       "javascript:",
		"JaVaScRiPt:alert(1)":       "javascript:",
		"data:text/html;base64,abc": "data:",
		"vbscript:msgbox":           "vbscript:",
		"x onclick=steal()":         "onclick=",
	}
	for in, needle := range cases {
		got := SanitizeValue(in)
		if strings.Contains(strings.ToLower(got), needle) {
			t.Fatalf("SanitizeValue(%q) = %q, still contains %q", in, got, needle)
		}
	}
}

func TestSanitizeValueClipsLength(t *testing.T) {
	got := SanitizeValue(strings.Repeat("a", 300))
	if len(got) != 255 {
		t.Fatalf("want 255 chars, got %d", len(got))
	}
}

func TestSanitizeValueClipsOnRuneBoundary(t *testing.T) {
	// 254 ASCII bytes followed by multi-byte runes: a naive byte clip at
	// 255 would cut through the first "é" and leave invalid UTF-8.
	got := SanitizeValue(strings.Repeat("a", 254) + strings.Repeat("é", 10))
	if len(got) > 255 {
		t.Fatalf("want at most 255 bytes, got %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("clipped value is not valid UTF-8: %q", got)
	}
	if got != strings.Repeat("a", 254) {
		t.Fatalf("want clip to back off to the last full rune, got %q", got)
	}
}
