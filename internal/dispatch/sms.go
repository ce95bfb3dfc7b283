package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSClient talks to the SMS gateway's REST API. One instance is shared by
// all recipient goroutines; it holds no per-send state.
type SMSClient struct {
	baseURL    string
	serviceID  string
	secret     string
	senderName string
	httpClient *http.Client
}

func NewSMSClient(baseURL, serviceID, secret, senderName string) *SMSClient {
	return &SMSClient{
		baseURL:    baseURL,
		serviceID:  serviceID,
		secret:     secret,
		senderName: senderName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *SMSClient) Channel() Channel { return SMS }

type smsPayload struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	SenderName string `json:"sender_name,omitempty"`
}

type smsResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Send submits one SMS and returns the gateway message ID. Gateway refusals
// come back verbatim in the error so the classifier can read them.
func (c *SMSClient) Send(ctx context.Context, address, body string) (string, error) {
	payload, err := json.Marshal(smsPayload{To: address, Message: body, SenderName: c.senderName})
	if err != nil {
		return "", fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.serviceID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms gateway connection failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed smsResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parsed.Error
		if detail == "" {
			detail = string(raw)
		}
		return "", fmt.Errorf("sms gateway rejected send (HTTP %d): %s", resp.StatusCode, detail)
	}
	return parsed.MessageID, nil
}
