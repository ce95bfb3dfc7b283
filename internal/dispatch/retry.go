package dispatch

import (
	"context"
	"fmt"
	"time"
)

// deliver drives up to cfg.MaxAttempts sequential send attempts for a single
// recipient, waiting cfg.BackoffBase * attemptNumber between failures. It
// stops early on success or when ctx expires. The terminal classified error,
// if any, is returned on the outcome; escalation is the dispatcher's call.
func deliver(ctx context.Context, client Client, recipient Recipient, address, body string, cfg Config) Outcome {
	outcome := Outcome{Recipient: recipient}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			outcome.FinalError = deadlineError(recipient, attempt, err)
			return outcome
		}

		_, err := client.Send(ctx, address, body)
		if err == nil {
			outcome.Attempts = append(outcome.Attempts, Attempt{
				Number:    attempt,
				Timestamp: time.Now().UTC(),
				Success:   true,
			})
			outcome.Success = true
			return outcome
		}

		if ctx.Err() != nil {
			// The send was cut short by the dispatch deadline, not
			// refused by the gateway.
			outcome.FinalError = deadlineError(recipient, attempt, ctx.Err())
			return outcome
		}

		classified := Classify(err)
		outcome.Attempts = append(outcome.Attempts, Attempt{
			Number:    attempt,
			Timestamp: time.Now().UTC(),
			Kind:      classified.Kind,
		})
		outcome.FinalError = classified

		if attempt == cfg.MaxAttempts {
			return outcome
		}

		select {
		case <-ctx.Done():
			outcome.FinalError = deadlineError(recipient, attempt, ctx.Err())
			return outcome
		case <-time.After(cfg.BackoffBase * time.Duration(attempt)):
		}
	}

	return outcome
}

func deadlineError(recipient Recipient, attempt int, cause error) *ClassifiedError {
	return &ClassifiedError{
		Kind:     KindServiceUnavailable,
		Severity: SeverityHigh,
		Message:  fmt.Sprintf("dispatch deadline elapsed at attempt %d for %s: %v", attempt, recipient.Channel, cause),
	}
}
