package dispatch

import (
	"strings"
	"testing"
)

func TestValidateAddressSMS(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		address string
		want    string
		wantErr bool
	}{
		{"local format", "0622123456", "+224622123456", false},
		{"local with spaces", "0622 12 34 56", "+224622123456", false},
		{"international", "+224622123456", "+224622123456", false},
		{"international with spaces", "+224 622 123 456", "+224622123456", false},
		{"alternate prefix senegal", "+221771234567", "+221771234567", false},
		{"alternate prefix mali", "+22376123456", "+22376123456", false},
		{"letters", "abc", "", true},
		{"empty", "", "", true},
		{"too short local", "062212345", "", true},
		{"too long local", "06221234567", "", true},
		{"unrecognized prefix", "+33612345678", "", true},
		{"digits without prefix", "622123456", "", true},
		{"plus only", "+", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAddress(cfg, tt.address, SMS)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateAddress(%q) = %q, want error", tt.address, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAddress(%q) unexpected error: %v", tt.address, err)
			}
			if got != tt.want {
				t.Errorf("ValidateAddress(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestValidateAddressEmail(t *testing.T) {
	tests := []struct {
		address string
		wantErr bool
	}{
		{"ops@nimbapay.com", false},
		{" padded@nimbapay.com ", false},
		{"no-at-sign", true},
		{"@nodomain", true},
		{"nouser@", true},
		{"two words@domain.com", true},
	}

	for _, tt := range tests {
		_, err := ValidateAddress(DefaultConfig(), tt.address, Email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAddress(%q, Email) error = %v, wantErr %v", tt.address, err, tt.wantErr)
		}
	}
}

func TestValidationErrorNamesAcceptedFormats(t *testing.T) {
	_, err := ValidateAddress(DefaultConfig(), "badnumber", SMS)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"0XXXXXXXXX", "+224"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error %q should mention %q", msg, want)
		}
	}
}
