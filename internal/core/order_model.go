package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Orders are created
// CONFIRMED; shipment progress moves them to SHIPPED and DELIVERED.
type OrderStatus string

const (
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderItem is one line of an order, priced at the catalog price at the time
// the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderItemRequest names one explicit line for PlaceOrder. Explicit lines are
// used only when the user's cart is empty.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderItemView is an order line joined with the product name.
type OrderItemView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderView struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItemView `json:"items"`
}

// Shipment tracks the delivery of one order. Status is free-form carrier
// vocabulary; recognized values also advance the order status.
type Shipment struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"order_id"`
	Status            string     `json:"status"`
	LogisticsPartner  string     `json:"logistics_partner,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}
