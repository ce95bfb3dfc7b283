package dispatch

import (
	"time"
)

type Channel string

const (
	SMS   Channel = "sms"
	Email Channel = "email"
)

// FailureKind identifies the cause of a failed send attempt.
type FailureKind string

const (
	KindAuthError          FailureKind = "auth_error"
	KindPhoneFormatError   FailureKind = "phone_format_error"
	KindServiceUnavailable FailureKind = "service_unavailable"
	KindQuotaExceeded      FailureKind = "quota_exceeded"
	KindNetworkError       FailureKind = "network_error"
	KindUnknown            FailureKind = "unknown"
)

// Severity ranks how urgently a failure needs attention. Critical failures
// (revoked credentials, suspended gateway account) are escalated to operators.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Recipient is one delivery target within a fan-out request.
type Recipient struct {
	Address string  `json:"address"`
	Channel Channel `json:"channel"`
}

// Request is a single fan-out: one message body, many recipients.
// Context is a free-form label (e.g. "partnership-submission") used in
// logs and operator alerts, never sent to recipients.
type Request struct {
	Body       string      `json:"body"`
	Recipients []Recipient `json:"recipients"`
	Context    string      `json:"context"`
}

// Attempt records one physical send attempt for one recipient.
type Attempt struct {
	Number    int         `json:"number"`
	Timestamp time.Time   `json:"timestamp"`
	Success   bool        `json:"success"`
	Kind      FailureKind `json:"kind,omitempty"`
}

// ClassifiedError is a raw gateway failure after classification.
type ClassifiedError struct {
	Kind     FailureKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

func (e *ClassifiedError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Outcome is the terminal delivery state for one recipient.
// A validation reject carries zero attempts; an exhausted retry carries
// one attempt per physical send.
type Outcome struct {
	Recipient  Recipient        `json:"recipient"`
	Success    bool             `json:"success"`
	Attempts   []Attempt        `json:"attempts"`
	FinalError *ClassifiedError `json:"final_error,omitempty"`
}

// Result aggregates all per-recipient outcomes of one dispatch call.
// TotalSent + TotalFailed always equals len(Request.Recipients).
type Result struct {
	Outcomes    []Outcome `json:"outcomes"`
	TotalSent   int       `json:"total_sent"`
	TotalFailed int       `json:"total_failed"`
	Errors      []string  `json:"errors,omitempty"`
}

// Status summarizes a Result for callers that surface delivery state as
// auxiliary metadata on the triggering request.
func (r *Result) Status() string {
	switch {
	case r.TotalFailed == 0:
		return "sent"
	case r.TotalSent == 0:
		return "failed"
	default:
		return "partially_sent"
	}
}
