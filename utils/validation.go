package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxGoalProperties  = 10
	maxGoalValueLength = 255
)

var goalPropertyName = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// dangerous substrings stripped from goal metadata values
var valueDenylist = []string{
	"javascript:",
	"vbscript:",
	"data:",
}

var onAttrPattern = regexp.MustCompile(`(?i)on\w+\s*=`)

// ValidateGoalMetadata validates and sanitizes a custom event's metadata
// map. The whole call is rejected (no partial result) when the property
// cap or a naming rule is violated: at most 10 properties, names
// restricted to lowercase [a-z0-9_-] of 32 chars or less. Values are
// stringified, clipped to 255 chars and stripped of markup-dangerous
// substrings.
func ValidateGoalMetadata(raw map[string]any) (map[string]string, error) {
	if raw == nil {
		return map[string]string{}, nil
	}
	if len(raw) > maxGoalProperties {
		return nil, fmt.Errorf("too many custom properties: %d (max %d)", len(raw), maxGoalProperties)
	}

	clean := make(map[string]string, len(raw))
	for name, value := range raw {
		if !goalPropertyName.MatchString(name) {
			return nil, fmt.Errorf("invalid property name %q: must match [a-z0-9_-] and be at most 32 chars", name)
		}
		clean[name] = SanitizeValue(fmt.Sprintf("%v", value))
	}
	return clean, nil
}

// SanitizeValue clips s to 255 bytes and strips characters and schemes
// that could smuggle markup into a dashboard render. The clip backs off
// to a rune boundary so a multi-byte character is never split.
func SanitizeValue(s string) string {
	if len(s) > maxGoalValueLength {
		cut := maxGoalValueLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}

	replacer := strings.NewReplacer(
		"<", "",
		">", "",
		"'", "",
		`"`, "",
		"&", "",
	)
	s = replacer.Replace(s)

	lower := strings.ToLower(s)
	for _, needle := range valueDenylist {
		for strings.Contains(lower, needle) {
			idx := strings.Index(lower, needle)
			s = s[:idx] + s[idx+len(needle):]
			lower = strings.ToLower(s)
		}
	}

	return onAttrPattern.ReplaceAllString(s, "")
}
