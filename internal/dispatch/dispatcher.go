package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNoRecipients = errors.New("dispatch: request has no recipients")
	ErrEmptyBody    = errors.New("dispatch: request has an empty body")
	ErrBodyTooLong  = errors.New("dispatch: body exceeds the channel length limit")
)

// Dispatcher fans one notification out to all recipients of a request,
// concurrently, and folds the per-recipient outcomes into a single Result.
// Partial failure is the normal return path: only a malformed request itself
// comes back as an error.
type Dispatcher struct {
	cfg       Config
	registry  *Registry
	escalator Escalator
	logger    *slog.Logger
	repo      *Repository
}

// New builds a Dispatcher. escalator and repo may be nil; logger falls back
// to slog.Default.
func New(cfg Config, registry *Registry, escalator Escalator, logger *slog.Logger, repo *Repository) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:       cfg.withDefaults(),
		registry:  registry,
		escalator: escalator,
		logger:    logger,
		repo:      repo,
	}
}

// Dispatch delivers req.Body to every recipient and returns the aggregated
// result. Deliveries to distinct recipients run in parallel; retries against
// one address never delay the others. The call is bounded by the configured
// dispatch timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if err := d.checkRequest(req); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("nimbapay/notify")
	ctx, span := tracer.Start(ctx, "dispatch")
	span.SetAttributes(
		attribute.String("notify.context", req.Context),
		attribute.Int("notify.recipients", len(req.Recipients)),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.DispatchTimeout)
	defer cancel()

	start := time.Now()
	outcomes := make([]Outcome, len(req.Recipients))

	var wg sync.WaitGroup
	for i, rcpt := range req.Recipients {
		address, err := ValidateAddress(d.cfg, rcpt.Address, rcpt.Channel)
		if err != nil {
			// Malformed address: zero attempts, no network call.
			outcomes[i] = Outcome{
				Recipient: rcpt,
				FinalError: &ClassifiedError{
					Kind:     KindPhoneFormatError,
					Severity: SeverityMedium,
					Message:  err.Error(),
				},
			}
			continue
		}

		client, err := d.registry.Get(rcpt.Channel)
		if err != nil {
			// A channel without a client is an operator problem, not a
			// recipient problem.
			outcomes[i] = Outcome{
				Recipient: rcpt,
				FinalError: &ClassifiedError{
					Kind:     KindUnknown,
					Severity: SeverityCritical,
					Message:  err.Error(),
				},
			}
			continue
		}

		wg.Add(1)
		go func(i int, rcpt Recipient) {
			defer wg.Done()
			outcomes[i] = deliver(ctx, client, rcpt, address, req.Body, d.cfg)
		}(i, rcpt)
	}
	wg.Wait()

	result := d.aggregate(ctx, req, outcomes)
	DispatchLatency.Observe(time.Since(start).Seconds())

	d.logger.Info("dispatch complete",
		"context", req.Context,
		"sent", result.TotalSent,
		"failed", result.TotalFailed,
		"elapsed", time.Since(start),
	)
	return result, nil
}

func (d *Dispatcher) checkRequest(req Request) error {
	if len(req.Recipients) == 0 {
		return ErrNoRecipients
	}
	if req.Body == "" {
		return ErrEmptyBody
	}
	for _, rcpt := range req.Recipients {
		if rcpt.Channel == SMS && len([]rune(req.Body)) > d.cfg.MaxSMSLength {
			return fmt.Errorf("%w: %d runes over the %d-rune SMS cap", ErrBodyTooLong,
				len([]rune(req.Body)), d.cfg.MaxSMSLength)
		}
	}
	return nil
}

func (d *Dispatcher) aggregate(ctx context.Context, req Request, outcomes []Outcome) *Result {
	result := &Result{Outcomes: outcomes}

	// Escalation and the audit log must still work when the dispatch
	// deadline has already elapsed.
	ctx = context.WithoutCancel(ctx)

	for _, o := range outcomes {
		AttemptsTotal.WithLabelValues(string(o.Recipient.Channel)).Add(float64(len(o.Attempts)))

		if o.Success {
			result.TotalSent++
			DeliveriesTotal.WithLabelValues(string(o.Recipient.Channel), "sent").Inc()
			continue
		}

		result.TotalFailed++
		DeliveriesTotal.WithLabelValues(string(o.Recipient.Channel), "failed").Inc()
		if o.FinalError == nil {
			continue
		}
		FailuresTotal.WithLabelValues(string(o.Recipient.Channel), string(o.FinalError.Kind)).Inc()
		if o.FinalError.Message != "" {
			result.Errors = append(result.Errors, o.FinalError.Message)
		}
		if o.FinalError.Severity == SeverityCritical {
			d.escalate(ctx, o.FinalError, req)
		}
	}

	if d.repo != nil {
		if err := d.repo.RecordOutcomes(ctx, req.Context, outcomes); err != nil {
			d.logger.Warn("failed to record delivery log", "error", err)
		}
	}
	return result
}

// escalate is best-effort: a failing escalation channel is logged, never
// surfaced to the caller.
func (d *Dispatcher) escalate(ctx context.Context, cerr *ClassifiedError, req Request) {
	if d.escalator == nil {
		return
	}
	EscalationsTotal.Inc()
	if err := d.escalator.Escalate(ctx, cerr, req); err != nil {
		d.logger.Error("escalation channel failed",
			"escalator", d.escalator.Name(),
			"context", req.Context,
			"error", err,
		)
	}
}
