package dispatch

import "time"

// Config holds dispatcher tunables. Zero values are replaced with the
// defaults from DefaultConfig.
type Config struct {
	// MaxAttempts bounds physical send attempts per recipient.
	MaxAttempts int
	// BackoffBase scales the wait between attempts: the wait before
	// attempt n+1 is BackoffBase * n.
	BackoffBase time.Duration
	// DispatchTimeout caps one whole dispatch call. Recipients whose
	// retries are still pending when it elapses are recorded as
	// service_unavailable failures.
	DispatchTimeout time.Duration
	// MaxSMSLength is the per-message length cap for the SMS channel.
	MaxSMSLength int
	// DefaultCountryPrefix is the prefix local numbers are rewritten to.
	DefaultCountryPrefix string
	// CountryPrefixes are the international prefixes accepted as-is.
	CountryPrefixes []string
}

// DefaultConfig returns production defaults for the Guinean market.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:          3,
		BackoffBase:          2 * time.Second,
		DispatchTimeout:      30 * time.Second,
		MaxSMSLength:         160,
		DefaultCountryPrefix: "+224",
		CountryPrefixes:      []string{"+224", "+221", "+223", "+225"},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = def.BackoffBase
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = def.DispatchTimeout
	}
	if c.MaxSMSLength <= 0 {
		c.MaxSMSLength = def.MaxSMSLength
	}
	if c.DefaultCountryPrefix == "" {
		c.DefaultCountryPrefix = def.DefaultCountryPrefix
	}
	if len(c.CountryPrefixes) == 0 {
		c.CountryPrefixes = def.CountryPrefixes
	}
	return c
}
