package dispatch

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestAlertTextRedactsAddresses(t *testing.T) {
	req := Request{
		Body:    "hello",
		Context: "partnership-submission",
		Recipients: []Recipient{
			{Address: "+224622123456", Channel: SMS},
			{Address: "contact@conakrytextiles.gn", Channel: Email},
		},
	}
	cerr := &ClassifiedError{
		Kind:     KindAuthError,
		Severity: SeverityCritical,
		Message:  "unauthorized: key revoked",
	}

	text := alertText(cerr, req)

	for _, want := range []string{"partnership-submission", "auth_error", "unauthorized: key revoked", "recipients affected: 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("alert text missing %q:\n%s", want, text)
		}
	}
	for _, leaked := range []string{"+224622123456", "contact@conakrytextiles.gn"} {
		if strings.Contains(text, leaked) {
			t.Errorf("alert text leaks recipient address %q", leaked)
		}
	}
}

func TestLogEscalator(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := NewLogEscalator(logger)
	err := e.Escalate(context.Background(), &ClassifiedError{
		Kind:     KindAuthError,
		Severity: SeverityCritical,
		Message:  "account_suspended",
	}, Request{Context: "repayment.due", Recipients: []Recipient{{Address: "0622123456", Channel: SMS}}})

	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "OPERATOR ALERT") || !strings.Contains(out, "account_suspended") {
		t.Errorf("log escalation incomplete: %s", out)
	}
}
