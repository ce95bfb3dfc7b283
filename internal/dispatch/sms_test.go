package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSMSClientSend(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		wantID   string
		wantErr  string
	}{
		{
			name:     "accepted",
			status:   http.StatusCreated,
			response: `{"message_id":"sms_42","status":"queued"}`,
			wantID:   "sms_42",
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			response: `{"error":"unauthorized: invalid service credentials"}`,
			wantErr:  "unauthorized",
		},
		{
			name:     "quota",
			status:   http.StatusTooManyRequests,
			response: `{"error":"daily quota exceeded"}`,
			wantErr:  "quota",
		},
		{
			name:     "opaque failure body",
			status:   http.StatusBadGateway,
			response: `upstream exploded`,
			wantErr:  "HTTP 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPayload smsPayload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/messages" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if user, _, ok := r.BasicAuth(); !ok || user != "sid_test" {
					t.Errorf("missing or wrong basic auth")
				}
				json.NewDecoder(r.Body).Decode(&gotPayload)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			client := NewSMSClient(srv.URL, "sid_test", "secret", "NimbaPay")
			id, err := client.Send(context.Background(), "+224622123456", "hello")

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Send succeeded, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
				// Gateway refusals must classify from their raw text.
				if tt.name == "unauthorized" && Classify(err).Severity != SeverityCritical {
					t.Errorf("unauthorized refusal classified as %s, want critical", Classify(err).Severity)
				}
				return
			}

			if err != nil {
				t.Fatalf("Send: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("message ID = %q, want %q", id, tt.wantID)
			}
			if gotPayload.To != "+224622123456" || gotPayload.Message != "hello" {
				t.Errorf("gateway payload = %+v", gotPayload)
			}
		})
	}
}
