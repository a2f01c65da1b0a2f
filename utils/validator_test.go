package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"staff@example.com", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
	}
	for _, tc := range cases {
		if got := ValidateEmail(tc.email); got != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Errorf("expected a short password to fail with a message, got %v %q", ok, msg)
	}
	if ok, msg := ValidatePassword("longenough"); !ok || msg != "" {
		t.Errorf("expected an 8+ character password to pass, got %v %q", ok, msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := map[string]string{
		"  Priya Shah  ":  "Priya Shah",
		"Priya\x00Shah":   "PriyaShah",
		"\x00  trimmed  ": "trimmed",
		"":                "",
	}
	for in, want := range cases {
		if got := SanitizeInput(in); got != want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
