package dispatch

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType labels the business event that triggers a notification fan-out.
type EventType string

const (
	EventPartnershipSubmitted EventType = "partnership.submitted"
	EventAdvanceApproved      EventType = "advance.approved"
	EventAdvanceDisbursed     EventType = "advance.disbursed"
	EventRepaymentDue         EventType = "repayment.due"
)

// Event is the envelope carried on the platform event stream.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID.
func NewEvent(eventType EventType, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        "evt_" + uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// PartnershipEventData describes a company applying for a salary-advance
// partnership. Contacts listed here receive the confirmation fan-out.
type PartnershipEventData struct {
	CompanyName   string   `json:"company_name"`
	ContactName   string   `json:"contact_name"`
	ContactPhones []string `json:"contact_phones"`
	ContactEmail  string   `json:"contact_email,omitempty"`
	EmployeeCount int      `json:"employee_count,omitempty"`
}

// AdvanceEventData describes a salary advance moving through its lifecycle.
type AdvanceEventData struct {
	EmployeeName string `json:"employee_name"`
	Phone        string `json:"phone"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	DueDate      string `json:"due_date,omitempty"`
}

func (e *Event) ParsePartnershipData() (*PartnershipEventData, error) {
	var data PartnershipEventData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (e *Event) ParseAdvanceData() (*AdvanceEventData, error) {
	var data AdvanceEventData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
