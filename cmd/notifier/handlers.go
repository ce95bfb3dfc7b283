package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nimbapay/notify/internal/dispatch"
	"github.com/nimbapay/notify/pkg/jsonutil"
	"github.com/nimbapay/notify/pkg/messaging"
)

type opsHandler struct {
	dispatcher *dispatch.Dispatcher
	repo       *dispatch.Repository
	rabbit     *messaging.RabbitClient
	logger     *slog.Logger
}

func (h *opsHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "active",
		"service": "notifier",
	}
	if h.rabbit != nil && !h.rabbit.IsHealthy() {
		status["rabbitmq"] = "degraded"
	}
	jsonutil.WriteJSON(w, http.StatusOK, status)
}

// Dispatch triggers a fan-out directly. Partial delivery failure is a 200
// with the aggregate in the body; only a malformed request is a 400.
func (h *opsHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonutil.WriteErrorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Context == "" {
		req.Context = "manual-dispatch"
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrNoRecipients),
			errors.Is(err, dispatch.ErrEmptyBody),
			errors.Is(err, dispatch.ErrBodyTooLong):
			jsonutil.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
		default:
			jsonutil.WriteErrorJSON(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": result.Status(),
		"result": result,
	})
}

func (h *opsHandler) RecentFailures(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		jsonutil.WriteErrorJSON(w, http.StatusServiceUnavailable, "delivery log not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	entries, err := h.repo.RecentFailures(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to query delivery log", "error", err)
		jsonutil.WriteErrorJSON(w, http.StatusInternalServerError, "failed to query delivery log")
		return
	}
	jsonutil.WriteJSON(w, http.StatusOK, map[string]any{"failures": entries})
}
