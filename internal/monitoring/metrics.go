// Package monitoring exposes Prometheus collectors for the webhook. The
// metrics server in cmd/server serves them on a separate port.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookRequests counts handled webhook events by resolved intent.
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pandasushi_webhook_requests_total",
		Help: "Webhook events handled, labeled by resolved intent.",
	}, []string{"intent"})

	// HandlerPanics counts faults recovered at the dispatch boundary.
	HandlerPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pandasushi_handler_panics_total",
		Help: "Panics recovered during webhook handling.",
	})

	// OrdersConfirmed counts orders handed to the kitchen.
	OrdersConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pandasushi_orders_confirmed_total",
		Help: "Orders confirmed and sent to the kitchen.",
	})

	// OrderValue accumulates the total value of confirmed orders.
	OrderValue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pandasushi_confirmed_order_value_total",
		Help: "Summed value of confirmed orders, in menu currency units.",
	})

	// ActiveSessions tracks sessions currently holding state.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pandasushi_active_sessions",
		Help: "Conversation sessions with a cart or guest details.",
	})
)
