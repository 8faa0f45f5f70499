// Package metrics defines and registers the custom Prometheus metrics of the
// temple API. HTTP request metrics come from the echoprometheus middleware;
// this package only holds domain counters.
//
// All metrics are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alayatales"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersRegisteredTotal counts successful registrations.
// Label:
//   - role: "user" or "admin"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// AccessDeniedTotal counts requests stopped by the access control middleware.
// Label:
//   - status: "401" or "403"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"status"},
)

// ── Temple metrics ────────────────────────────────────────────────────────────

// TempleMutationsTotal counts successful temple writes.
// Label:
//   - op: "create", "replay", "update" or "delete"
var TempleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "temple_mutations_total",
		Help:      "Total number of temple mutations, by operation.",
	},
	[]string{"op"},
)

// ImagesUploadedTotal counts image files received in temple requests.
var ImagesUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_uploaded_total",
		Help:      "Total number of image files received.",
	},
)

// ImageRemovalsTotal counts janitor removals of unreferenced images.
// Label:
//   - result: "removed", "failed" or "dropped" (queue full)
var ImageRemovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_removals_total",
		Help:      "Total number of unreferenced image removals, by result.",
	},
	[]string{"result"},
)

// JanitorQueueDepth tracks the number of paths waiting in each janitor worker channel.
// Label:
//   - worker_id: numeric worker index
var JanitorQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "janitor_queue_depth",
		Help:      "Current number of image paths pending in each janitor worker channel.",
	},
	[]string{"worker_id"},
)
