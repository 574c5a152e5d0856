package collection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "local_mutations_total",
			Help:      "Optimistic local mutations applied to collections.",
		},
		[]string{"entity", "op"},
	)

	conflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tandemsync",
			Name:      "update_conflicts_total",
			Help:      "Remote updates that met an existing local record, by winner.",
		},
		[]string{"entity", "winner"},
	)
)
