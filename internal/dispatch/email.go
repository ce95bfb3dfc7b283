package dispatch

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailClient delivers the email channel through Resend.
type EmailClient struct {
	client  *resend.Client
	from    string
	subject string
}

func NewEmailClient(apiKey, from, subject string) *EmailClient {
	if subject == "" {
		subject = "NimbaPay notification"
	}
	return &EmailClient{
		client:  resend.NewClient(apiKey),
		from:    from,
		subject: subject,
	}
}

func (c *EmailClient) Channel() Channel { return Email }

func (c *EmailClient) Send(ctx context.Context, address, body string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{address},
		Subject: c.subject,
		Text:    body,
	}
	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("email send failed: %w", err)
	}
	return sent.Id, nil
}
