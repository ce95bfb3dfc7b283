package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_deliveries_total",
		Help: "Per-recipient delivery outcomes.",
	}, []string{"channel", "status"})

	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_send_attempts_total",
		Help: "Physical send attempts against channel gateways.",
	}, []string{"channel"})

	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_failures_total",
		Help: "Terminal delivery failures by classified kind.",
	}, []string{"channel", "kind"})

	EscalationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notify_escalations_total",
		Help: "Operator escalations triggered by critical failures.",
	})

	DispatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notify_dispatch_latency_seconds",
		Help:    "Wall time of a full fan-out dispatch.",
		Buckets: prometheus.DefBuckets,
	})
)
