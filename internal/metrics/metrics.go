// Package metrics defines and registers all custom Prometheus metrics
// for the ERP backend. It is the single source of truth for metric
// names, labels, and help strings. Metrics self-register with the
// default registry via promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "erp"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - method: "demo" (static table) or "provider"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by verification method.",
	},
	[]string{"method"},
)

// AuthFailuresTotal counts rejected credential pairs.
var AuthFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed login attempts.",
	},
)

// SessionsActive tracks the current number of live sessions.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of active sessions.",
	},
)

// SessionsExpiredTotal counts sessions terminated by the inactivity monitor.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions logged out for inactivity.",
	},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheRecords tracks the size of each local collection.
// Label:
//   - collection: "products", "customers" or "sales"
var CacheRecords = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_records",
		Help:      "Current number of records held in each local collection.",
	},
	[]string{"collection"},
)

// ChangeEventsTotal counts change-feed events merged into the cache.
// Labels:
//   - collection: target collection
//   - type: INSERT, UPDATE or DELETE
var ChangeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_total",
		Help:      "Total number of change-feed events applied, by collection and type.",
	},
	[]string{"collection", "type"},
)

// PersistenceErrorsTotal counts remote-store rejections of write-through
// operations.
// Labels:
//   - collection: target collection
//   - op: "insert", "update" or "delete"
var PersistenceErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_errors_total",
		Help:      "Total number of write-through operations rejected by the remote store.",
	},
	[]string{"collection", "op"},
)

// SalesCreatedTotal counts completed composite sale operations.
// Label:
//   - payment_method: e.g. "cash", "credit", "transfer"
var SalesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_created_total",
		Help:      "Total number of sales recorded, by payment method.",
	},
	[]string{"payment_method"},
)
