package dispatch

import "strings"

// classifyRule maps raw gateway error text to a kind and severity.
// Gateway errors are free text, not typed, so matching is substring based.
type classifyRule struct {
	substrings []string
	kind       FailureKind
	severity   Severity
}

// classifyRules is evaluated in order, first match wins. Credential and
// account failures sit on top so a message like "unauthorized: upstream
// timeout" is never downgraded to a transient kind.
var classifyRules = []classifyRule{
	{[]string{"unauthorized", "invalid_credentials"}, KindAuthError, SeverityCritical},
	{[]string{"account_suspended"}, KindAuthError, SeverityCritical},
	{[]string{"quota", "limit"}, KindQuotaExceeded, SeverityHigh},
	{[]string{"service_unavailable", "timeout"}, KindServiceUnavailable, SeverityHigh},
	{[]string{"invalid_phone", "format"}, KindPhoneFormatError, SeverityMedium},
	{[]string{"network", "connection"}, KindNetworkError, SeverityLow},
}

// Classify maps a raw send error to a ClassifiedError. Pure and
// deterministic: the same error text always yields the same classification.
func Classify(err error) *ClassifiedError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	for _, rule := range classifyRules {
		for _, s := range rule.substrings {
			if strings.Contains(lower, s) {
				return &ClassifiedError{Kind: rule.kind, Severity: rule.severity, Message: msg}
			}
		}
	}
	return &ClassifiedError{Kind: KindUnknown, Severity: SeverityLow, Message: msg}
}
