package dispatch

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     FailureKind
		severity Severity
	}{
		{"unauthorized", errors.New("401 Unauthorized"), KindAuthError, SeverityCritical},
		{"invalid credentials", errors.New("gateway says: invalid_credentials"), KindAuthError, SeverityCritical},
		{"account suspended", errors.New("account_suspended: contact support"), KindAuthError, SeverityCritical},
		{"quota", errors.New("monthly quota exceeded"), KindQuotaExceeded, SeverityHigh},
		{"rate limit", errors.New("daily limit reached"), KindQuotaExceeded, SeverityHigh},
		{"service unavailable", errors.New("503 service_unavailable"), KindServiceUnavailable, SeverityHigh},
		{"timeout", errors.New("request timeout after 30s"), KindServiceUnavailable, SeverityHigh},
		{"invalid phone", errors.New("invalid_phone: cannot route"), KindPhoneFormatError, SeverityMedium},
		{"bad format", errors.New("number format not recognized"), KindPhoneFormatError, SeverityMedium},
		{"network", errors.New("network unreachable"), KindNetworkError, SeverityLow},
		{"connection", errors.New("connection reset by peer"), KindNetworkError, SeverityLow},
		{"unknown", errors.New("something odd happened"), KindUnknown, SeverityLow},

		// Priority ordering: credential failures always win over later,
		// more generic matches.
		{"auth beats timeout", errors.New("unauthorized: upstream timeout"), KindAuthError, SeverityCritical},
		{"quota beats network", errors.New("quota exhausted due to network burst"), KindQuotaExceeded, SeverityHigh},
		{"suspended beats format", errors.New("account_suspended: invalid_phone on file"), KindAuthError, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.kind {
				t.Errorf("Classify(%q).Kind = %s, want %s", tt.err, got.Kind, tt.kind)
			}
			if got.Severity != tt.severity {
				t.Errorf("Classify(%q).Severity = %s, want %s", tt.err, got.Severity, tt.severity)
			}
			if got.Message != tt.err.Error() {
				t.Errorf("Classify(%q).Message = %q, want raw text preserved", tt.err, got.Message)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	err := errors.New("unauthorized: token revoked")
	first := Classify(err)
	second := Classify(err)
	if *first != *second {
		t.Errorf("Classify is not deterministic: %+v vs %+v", first, second)
	}
}
