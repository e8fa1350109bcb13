// Package metrics holds the Prometheus instruments for the service. They are
// registered on the default registry and exposed by the web adapter at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StockMovements counts committed stock ledger entries by movement type.
	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omnicart_stock_movements_total",
		Help: "Committed stock movements by type.",
	}, []string{"type"})

	// OrdersPlaced counts successfully placed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnicart_orders_placed_total",
		Help: "Orders placed successfully.",
	})

	// InsufficientStock counts adjustments rejected for driving a warehouse
	// quantity below zero.
	InsufficientStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omnicart_insufficient_stock_total",
		Help: "Adjustments rejected due to insufficient stock.",
	})
)
