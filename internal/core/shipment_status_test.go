package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"omnicart-backend/internal/core"
)

func TestMapShipmentStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   core.OrderStatus
		mapped bool
	}{
		{"DELIVERED", core.OrderDelivered, true},
		{"delivered", core.OrderDelivered, true},
		{"  Delivered  ", core.OrderDelivered, true},
		{"SHIPPED", core.OrderShipped, true},
		{"shipped", core.OrderShipped, true},
		{"CANCELLED", core.OrderCancelled, true},
		{"Pending", core.OrderConfirmed, true},
		{"confirmed", core.OrderConfirmed, true},
		{"out_for_delivery", "", false},
		{"in_transit", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := core.MapShipmentStatus(tc.in)
			assert.Equal(t, tc.mapped, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
