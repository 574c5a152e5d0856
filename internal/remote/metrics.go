package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "feed_events_total",
			Help:      "Realtime change events received from the backend.",
		},
		[]string{"entity", "op"},
	)

	reconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "feed_reconnects_total",
			Help:      "Change-feed dial attempts after a drop or failure.",
		},
	)
)
