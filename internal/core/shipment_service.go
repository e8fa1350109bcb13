package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShipmentService interface {
	// CreateShipment starts fulfilment for an order: the shipment becomes
	// "Pending" with a five-day delivery estimate and the order moves to
	// SHIPPED, atomically.
	CreateShipment(ctx context.Context, orderID uuid.UUID, logisticsPartner string, trackingNumber *string) (*Shipment, error)
	// UpdateShipmentStatus records a carrier status update. Recognized
	// statuses also advance the order; unrecognized ones update only the
	// shipment.
	UpdateShipmentStatus(ctx context.Context, shipmentID uuid.UUID, status string) (*Shipment, error)
	GetShipmentByOrder(ctx context.Context, orderID uuid.UUID) (*Shipment, error)
	GetAllShipments(ctx context.Context) ([]Shipment, error)
	GetShipmentsBySeller(ctx context.Context, sellerID uuid.UUID) ([]Shipment, error)
}

// MapShipmentStatus translates a carrier shipment status into the order
// status it implies. The mapping is case-insensitive and ignores surrounding
// whitespace; ok is false for statuses that carry no order transition (for
// example "out_for_delivery").
func MapShipmentStatus(status string) (OrderStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PENDING", "CONFIRMED":
		return OrderConfirmed, true
	case "SHIPPED":
		return OrderShipped, true
	case "DELIVERED":
		return OrderDelivered, true
	case "CANCELLED":
		return OrderCancelled, true
	default:
		return "", false
	}
}

type shipmentService struct {
	pool *pgxpool.Pool
}

func NewShipmentService(pool *pgxpool.Pool) ShipmentService {
	return &shipmentService{pool: pool}
}

const shipmentColumns = "id, order_id, status, COALESCE(logistics_partner, ''), tracking_number, shipped_at, estimated_delivery"

func scanShipment(row pgx.Row, sh *Shipment) error {
	return row.Scan(&sh.ID, &sh.OrderID, &sh.Status, &sh.LogisticsPartner,
		&sh.TrackingNumber, &sh.ShippedAt, &sh.EstimatedDelivery)
}

func (s *shipmentService) CreateShipment(ctx context.Context, orderID uuid.UUID, logisticsPartner string, trackingNumber *string) (*Shipment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderStatus OrderStatus
	err = tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&orderStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", ID: orderID.String()}
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	now := time.Now()
	estimated := now.AddDate(0, 0, 5)
	var sh Shipment
	err = scanShipment(tx.QueryRow(ctx, `
		INSERT INTO shipments (order_id, status, logistics_partner, tracking_number, shipped_at, estimated_delivery)
		VALUES ($1, 'Pending', $2, $3, $4, $5)
		RETURNING `+shipmentColumns,
		orderID, logisticsPartner, trackingNumber, now, estimated), &sh)
	if err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", OrderShipped, orderID); err != nil {
		return nil, fmt.Errorf("failed to mark order shipped: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit shipment: %w", err)
	}
	return &sh, nil
}

func (s *shipmentService) UpdateShipmentStatus(ctx context.Context, shipmentID uuid.UUID, status string) (*Shipment, error) {
	if strings.TrimSpace(status) == "" {
		return nil, &ValidationError{Msg: "shipment status is required"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sh Shipment
	err = scanShipment(tx.QueryRow(ctx,
		"SELECT "+shipmentColumns+" FROM shipments WHERE id = $1 FOR UPDATE", shipmentID), &sh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "shipment", ID: shipmentID.String()}
		}
		return nil, fmt.Errorf("failed to fetch shipment: %w", err)
	}

	if _, err := tx.Exec(ctx, "UPDATE shipments SET status = $1 WHERE id = $2", status, shipmentID); err != nil {
		return nil, fmt.Errorf("failed to update shipment status: %w", err)
	}
	sh.Status = status

	if orderStatus, ok := MapShipmentStatus(status); ok {
		if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", orderStatus, sh.OrderID); err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit shipment status: %w", err)
	}
	return &sh, nil
}

func (s *shipmentService) GetShipmentByOrder(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	var sh Shipment
	err := scanShipment(s.pool.QueryRow(ctx,
		"SELECT "+shipmentColumns+" FROM shipments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1", orderID), &sh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "shipment", ID: ""}
		}
		return nil, fmt.Errorf("failed to fetch shipment: %w", err)
	}
	return &sh, nil
}

func (s *shipmentService) GetAllShipments(ctx context.Context) ([]Shipment, error) {
	return s.queryShipments(ctx, `
		SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC`)
}

func (s *shipmentService) GetShipmentsBySeller(ctx context.Context, sellerID uuid.UUID) ([]Shipment, error) {
	return s.queryShipments(ctx, `
		SELECT `+shipmentColumns+`
		FROM shipments
		WHERE order_id IN (
			SELECT oi.order_id
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE p.seller_id = $1
		)
		ORDER BY created_at DESC`, sellerID)
}

func (s *shipmentService) queryShipments(ctx context.Context, query string, args ...any) ([]Shipment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer rows.Close()

	shipments := []Shipment{}
	for rows.Next() {
		var sh Shipment
		if err := rows.Scan(&sh.ID, &sh.OrderID, &sh.Status, &sh.LogisticsPartner,
			&sh.TrackingNumber, &sh.ShippedAt, &sh.EstimatedDelivery); err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, sh)
	}
	return shipments, rows.Err()
}
