package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RequestDispatcher is the slice of Dispatcher the worker needs.
type RequestDispatcher interface {
	Dispatch(ctx context.Context, req Request) (*Result, error)
}

// Worker turns platform business events into notification fan-outs. Events
// are deduplicated by ID through Redis so a redelivered message does not
// re-text every recipient.
type Worker struct {
	dispatcher RequestDispatcher
	redis      *redis.Client
	logger     *slog.Logger
}

func NewWorker(dispatcher RequestDispatcher, redisClient *redis.Client, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{dispatcher: dispatcher, redis: redisClient, logger: logger}
}

// ProcessEvent handles one raw event from the stream. A non-nil return asks
// the broker to redeliver; delivery failures inside the fan-out do not,
// since the dispatcher already retried them.
func (w *Worker) ProcessEvent(ctx context.Context, body []byte) error {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if w.redis != nil && event.ID != "" {
		key := "notify:done:" + event.ID
		exists, err := w.redis.Exists(ctx, key).Result()
		if err != nil {
			w.logger.Warn("idempotency check failed, proceeding", "event", event.ID, "error", err)
		} else if exists > 0 {
			w.logger.Info("event already processed, skipping", "event", event.ID)
			return nil
		}
	}

	req, err := w.buildRequest(&event)
	if err != nil {
		// Malformed payloads never become processable; drop them.
		w.logger.Error("unroutable event dropped", "event", event.ID, "type", event.Type, "error", err)
		return nil
	}

	result, err := w.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return fmt.Errorf("dispatch failed for event %s: %w", event.ID, err)
	}

	if w.redis != nil && event.ID != "" {
		w.redis.Set(ctx, "notify:done:"+event.ID, "1", 24*time.Hour)
	}

	w.logger.Info("event dispatched",
		"event", event.ID,
		"type", event.Type,
		"status", result.Status(),
		"sent", result.TotalSent,
		"failed", result.TotalFailed,
	)
	return nil
}

// buildRequest maps an event to its template and recipient set.
func (w *Worker) buildRequest(event *Event) (Request, error) {
	switch event.Type {
	case EventPartnershipSubmitted:
		data, err := event.ParsePartnershipData()
		if err != nil {
			return Request{}, err
		}
		body, err := RenderTemplate("partnership_submitted", map[string]string{
			"CompanyName": data.CompanyName,
		})
		if err != nil {
			return Request{}, err
		}
		var recipients []Recipient
		for _, phone := range data.ContactPhones {
			recipients = append(recipients, Recipient{Address: phone, Channel: SMS})
		}
		if data.ContactEmail != "" {
			recipients = append(recipients, Recipient{Address: data.ContactEmail, Channel: Email})
		}
		return Request{Body: body, Recipients: recipients, Context: "partnership-submission"}, nil

	case EventAdvanceApproved, EventAdvanceDisbursed, EventRepaymentDue:
		data, err := event.ParseAdvanceData()
		if err != nil {
			return Request{}, err
		}
		body, err := RenderTemplate(advanceTemplate(event.Type), map[string]string{
			"Amount":   fmt.Sprintf("%d", data.Amount),
			"Currency": data.Currency,
			"DueDate":  data.DueDate,
		})
		if err != nil {
			return Request{}, err
		}
		return Request{
			Body:       body,
			Recipients: []Recipient{{Address: data.Phone, Channel: SMS}},
			Context:    string(event.Type),
		}, nil

	default:
		return Request{}, fmt.Errorf("no routing for event type: %s", event.Type)
	}
}

func advanceTemplate(t EventType) string {
	switch t {
	case EventAdvanceApproved:
		return "advance_approved"
	case EventAdvanceDisbursed:
		return "advance_disbursed"
	default:
		return "repayment_due"
	}
}
