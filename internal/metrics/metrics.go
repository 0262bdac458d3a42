package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LifecycleTransitions counts item/request state transitions by operation
// (request, approve, reject, donate, delete) and result (ok, conflict,
// forbidden, not_found, error).
var LifecycleTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lifecycle_transitions_total",
		Help: "Item lifecycle transitions by operation and result.",
	},
	[]string{"operation", "result"},
)

// NotificationsCreated counts notifications written as lifecycle side effects.
var NotificationsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications created, labelled by type.",
	},
	[]string{"type"},
)
