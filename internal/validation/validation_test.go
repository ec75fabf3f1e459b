package validation

import "testing"

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{
			name:  "plain name",
			value: "Tashi Dorji",
			valid: true,
		},
		{
			name:  "empty string",
			value: "",
			valid: false,
		},
		{
			name:  "whitespace only",
			value: "   ",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidName(tt.value)
			if got != tt.valid {
				t.Fatalf("IsValidName(%q) = %v, want %v", tt.value, got, tt.valid)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{
			name:  "valid address",
			email: "tashi@example.com",
			valid: true,
		},
		{
			name:  "subdomain",
			email: "tashi@mail.example.bt",
			valid: true,
		},
		{
			name:  "missing at",
			email: "tashi.example.com",
			valid: false,
		},
		{
			name:  "missing domain dot",
			email: "tashi@example",
			valid: false,
		},
		{
			name:  "two at signs",
			email: "ta@shi@example.com",
			valid: false,
		},
		{
			name:  "empty local part",
			email: "@example.com",
			valid: false,
		},
		{
			name:  "trailing dot",
			email: "tashi@example.",
			valid: false,
		},
		{
			name:  "contains space",
			email: "ta shi@example.com",
			valid: false,
		},
		{
			name:  "empty string",
			email: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.valid {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}
