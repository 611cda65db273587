// Package utils contains id generation, validation and bucket-key helpers.
package utils

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateULID returns a new ULID string, used for row ids.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateToken returns a UUIDv4-shaped token, the same shape the
// tracking script mints for visitor and session identifiers.
func GenerateToken() string {
	return uuid.NewString()
}

// IsValidToken reports whether s looks like a v4 UUID: 36 chars, dashes
// in the right places, version nibble "4" and variant in 8/9/a/b.
func IsValidToken(s string) bool {
	if len(s) != 36 {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	if s[14] != '4' {
		return false
	}
	switch s[19] {
	case '8', '9', 'a', 'b', 'A', 'B':
	default:
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() == 4
}
