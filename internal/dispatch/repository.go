package dispatch

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository writes the delivery audit log. It is append-only: rows are
// never read back to drive retries, so losing one costs an audit entry,
// not a notification.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecordOutcomes inserts one row per recipient outcome of a dispatch call.
func (r *Repository) RecordOutcomes(ctx context.Context, label string, outcomes []Outcome) error {
	query := `
		INSERT INTO delivery_log (id, context, recipient, channel, success, attempts, failure_kind, failure_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now().UTC()
	for _, o := range outcomes {
		var kind, msg string
		if o.FinalError != nil {
			kind = string(o.FinalError.Kind)
			msg = o.FinalError.Message
		}
		_, err := r.db.ExecContext(ctx, query,
			uuid.New().String(), label, o.Recipient.Address, o.Recipient.Channel,
			o.Success, len(o.Attempts), kind, msg, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RecentFailures returns the newest failed deliveries, newest first. Used by
// the ops endpoint, never by the dispatch path.
func (r *Repository) RecentFailures(ctx context.Context, limit int) ([]LogEntry, error) {
	query := `
		SELECT id, context, recipient, channel, attempts, failure_kind, failure_message, created_at
		FROM delivery_log WHERE success = false ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Context, &e.Recipient, &e.Channel, &e.Attempts, &e.FailureKind, &e.FailureMessage, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LogEntry is one row of the delivery audit log.
type LogEntry struct {
	ID             string    `json:"id"`
	Context        string    `json:"context"`
	Recipient      string    `json:"recipient"`
	Channel        Channel   `json:"channel"`
	Attempts       int       `json:"attempts"`
	FailureKind    string    `json:"failure_kind,omitempty"`
	FailureMessage string    `json:"failure_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
