package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OrdersPlaced counts orders created through checkout.
	OrdersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emporio_orders_placed_total",
			Help: "Number of orders created at checkout",
		},
	)

	// ChargesCreated counts gateway charges successfully created.
	ChargesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emporio_gateway_charges_created_total",
			Help: "Number of payment charges created at the gateway",
		},
	)

	// ChargeFailures counts gateway charge attempts that failed.
	ChargeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emporio_gateway_charge_failures_total",
			Help: "Number of payment charge attempts rejected by the gateway",
		},
	)

	// WebhookEvents counts webhook deliveries by outcome.
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emporio_payment_webhook_events_total",
			Help: "Number of payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)
)

// RegisterMetrics registers all application metrics with the default
// Prometheus registry. Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(OrdersPlaced, ChargesCreated, ChargeFailures, WebhookEvents)
}
