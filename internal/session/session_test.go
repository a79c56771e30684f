package session

import (
	"testing"
)

func TestNewTokensAreValid(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		token := New()
		if err := Validate(token); err != nil {
			t.Fatalf("Generated token %q failed validation: %v", token, err)
		}
	}
}

func TestNewTokensAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := New()
		if seen[token] {
			t.Fatalf("Duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		token string
		ok    bool
	}{
		{New(), true},
		{"", false},
		{"short", false},
		{"zzzzzzzzzzzzzzzzzzzzzzzzzz", false},    // first char out of range
		{"0123456789abcdefghjkmnpqrs", true},     // all valid alphabet
		{"0123456789abcdefghjkmnpqrl", false},    // 'l' not in alphabet
		{"01234567890123456789012345678", false}, // too long
	}
	for _, tc := range cases {
		err := Validate(tc.token)
		if tc.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tc.token, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Validate(%q) should fail", tc.token)
		}
	}
}
