package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pendingOps = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tandemsync",
			Name:      "pending_ops",
			Help:      "Operations queued locally and not yet acknowledged.",
		},
	)

	enqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "ops_enqueued_total",
			Help:      "Local mutations accepted into the pending queue.",
		},
		[]string{"entity", "op"},
	)

	flushAckedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "flush_acked_total",
			Help:      "Pending operations acknowledged by the backend.",
		},
		[]string{"entity"},
	)

	flushFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "flush_failures_total",
			Help:      "Push attempts that failed and aborted a flush pass.",
		},
		[]string{"entity"},
	)
)
