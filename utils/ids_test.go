package utils

import "testing"

func TestGenerateTokenShape(t *testing.T) {
	tok := GenerateToken()
	if len(tok) != 36 {
		t.Fatalf("want 36 chars, got %d", len(tok))
	}
	if tok[14] != '4' {
		t.Fatalf("want version nibble 4, got %c", tok[14])
	}
	switch tok[19] {
	case '8', '9', 'a', 'b':
	default:
		t.Fatalf("want variant in 8/9/a/b, got %c", tok[19])
	}
	if !IsValidToken(tok) {
		t.Fatalf("generated token rejected: %s", tok)
	}
}

func TestIsValidTokenRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"not-a-uuid",
		"123e4567-e89b-12d3-a456-426614174000", // version 1
		"123e4567-e89b-42d3-c456-426614174000", // bad variant
		"123e4567e89b42d3a456426614174000",     // no dashes
	}
	for _, s := range bad {
		if IsValidToken(s) {
			t.Fatalf("want rejection for %q", s)
		}
	}
}

func TestGenerateULIDUnique(t *testing.T) {
	a, b := GenerateULID(), GenerateULID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("want 26-char ulids, got %q, %q", a, b)
	}
	if a == b {
		t.Fatalf("want distinct ulids, got %q twice", a)
	}
}
