package dispatch

import (
	"fmt"
	"strings"
)

// ValidationError rejects a recipient before any network attempt.
type ValidationError struct {
	Address string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

// ValidateAddress normalizes a recipient address for the given channel.
// SMS numbers are accepted in local form (0XXXXXXXXX) or international
// form (+224XXXXXXXXX, plus the configured alternate prefixes); local
// numbers are rewritten to the default country prefix. Pure function,
// called before any attempt is scheduled.
func ValidateAddress(cfg Config, address string, channel Channel) (string, error) {
	switch channel {
	case SMS:
		return validatePhone(cfg, address)
	case Email:
		return validateEmail(address)
	default:
		return "", &ValidationError{Address: address, Reason: fmt.Sprintf("unsupported channel %q", channel)}
	}
}

func validatePhone(cfg Config, address string) (string, error) {
	s := strings.Join(strings.Fields(address), "")

	// Local format: leading 0 plus nine digits, rewritten to the
	// default country prefix.
	if strings.HasPrefix(s, "0") && len(s) == 10 && allDigits(s) {
		return cfg.DefaultCountryPrefix + s[1:], nil
	}

	if strings.HasPrefix(s, "+") {
		for _, prefix := range cfg.CountryPrefixes {
			rest := strings.TrimPrefix(s, prefix)
			if rest == s {
				continue
			}
			if len(rest) >= 8 && len(rest) <= 10 && allDigits(rest) {
				return s, nil
			}
		}
	}

	return "", &ValidationError{
		Address: address,
		Reason: fmt.Sprintf("expected local format 0XXXXXXXXX or international format %sXXXXXXXXX",
			cfg.DefaultCountryPrefix),
	}
}

func validateEmail(address string) (string, error) {
	s := strings.TrimSpace(address)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || strings.Contains(s, " ") {
		return "", &ValidationError{Address: address, Reason: "expected an address of the form user@domain"}
	}
	return s, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
