package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTPRequestDuration tracks HTTP request latency across every process role.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "comops",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// ServiceClientDuration tracks outbound downstream call latency (C1).
var ServiceClientDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "comops",
		Subsystem: "serviceclient",
		Name:      "call_duration_seconds",
		Help:      "Downstream service call duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"target", "method", "outcome"},
)

// IdempotencyChecksTotal tracks ledger lookups by where the hit landed (C2).
var IdempotencyChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "idempotency",
		Name:      "checks_total",
		Help:      "Total idempotency checks by result.",
	},
	[]string{"result"}, // redis_hit, db_hit, miss
)

// EventsPublishedTotal tracks outbound events by type (C8).
var EventsPublishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "eventbus",
		Name:      "published_total",
		Help:      "Total events published by type.",
	},
	[]string{"event_type"},
)

// EventsConsumedTotal tracks inbound events by type and outcome (C8).
var EventsConsumedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "eventbus",
		Name:      "consumed_total",
		Help:      "Total events consumed by type and outcome.",
	},
	[]string{"event_type", "outcome"}, // acked, redelivered, dropped
)

// OpsAlertsTotal tracks operator-actionable alerts posted, by kind.
var OpsAlertsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "opsalert",
		Name:      "posted_total",
		Help:      "Total operator-actionable alerts posted, by kind.",
	},
	[]string{"kind"}, // partial_reservation_leak, missing_plan
)

// OrdersCreatedTotal tracks successful order creations.
var OrdersCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total orders created.",
	},
)

// RouteOptimizationsTotal tracks route optimizer invocations.
var RouteOptimizationsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "comops",
		Subsystem: "delivery",
		Name:      "routes_optimized_total",
		Help:      "Total route optimization runs.",
	},
)

// All returns the comops-specific metrics for registration, over and above
// the ambient HTTPRequestDuration collector wired in NewMetricsRegistry.
func All() []prometheus.Collector {
	return []prometheus.Collector{
		ServiceClientDuration,
		IdempotencyChecksTotal,
		EventsPublishedTotal,
		EventsConsumedTotal,
		OpsAlertsTotal,
		OrdersCreatedTotal,
		RouteOptimizationsTotal,
	}
}

// NewMetricsRegistry creates a Prometheus registry with Go/process collectors,
// the shared HTTPRequestDuration metric, and any additional collectors passed
// as arguments (normally telemetry.All()).
func NewMetricsRegistry(extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestDuration,
	)
	for _, c := range extra {
		reg.MustRegister(c)
	}
	return reg
}
