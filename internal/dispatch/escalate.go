package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// Escalator raises critical delivery failures to a human operator.
// Implementations are best-effort side channels: the dispatcher logs their
// errors and never lets them fail the primary flow.
type Escalator interface {
	Escalate(ctx context.Context, e *ClassifiedError, req Request) error
	Name() string
}

// alertText builds the operator-facing message. Recipient addresses are
// redacted down to a count.
func alertText(e *ClassifiedError, req Request) string {
	return fmt.Sprintf(
		"[%s] critical notification failure\ncontext: %s\nkind: %s\nseverity: %s\nerror: %s\nrecipients affected: %d",
		time.Now().UTC().Format(time.RFC3339),
		req.Context, e.Kind, e.Severity, e.Message, len(req.Recipients),
	)
}

// EmailEscalator mails critical failures to the operations inbox via Resend.
type EmailEscalator struct {
	client  *resend.Client
	from    string
	opsAddr string
}

func NewEmailEscalator(apiKey, from, opsAddr string) *EmailEscalator {
	return &EmailEscalator{
		client:  resend.NewClient(apiKey),
		from:    from,
		opsAddr: opsAddr,
	}
}

func (e *EmailEscalator) Name() string { return "email" }

func (e *EmailEscalator) Escalate(ctx context.Context, cerr *ClassifiedError, req Request) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{e.opsAddr},
		Subject: fmt.Sprintf("[notify] critical failure: %s (%s)", cerr.Kind, req.Context),
		Text:    alertText(cerr, req),
	}
	if _, err := e.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send operator alert: %w", err)
	}
	return nil
}

// LogEscalator writes alerts to the structured log. Used when no operator
// mail channel is configured, and as the terminal fallback in development.
type LogEscalator struct {
	logger *slog.Logger
}

func NewLogEscalator(logger *slog.Logger) *LogEscalator {
	return &LogEscalator{logger: logger}
}

func (e *LogEscalator) Name() string { return "log" }

func (e *LogEscalator) Escalate(_ context.Context, cerr *ClassifiedError, req Request) error {
	e.logger.Error("OPERATOR ALERT",
		"context", req.Context,
		"kind", cerr.Kind,
		"severity", cerr.Severity,
		"error", cerr.Message,
		"recipients", len(req.Recipients),
	)
	return nil
}
