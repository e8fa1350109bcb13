package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"omnicart-backend/internal/core"
)

func setupShipmentTest(t *testing.T) (*pgxpool.Pool, testFixtures, core.ShipmentService, uuid.UUID, context.Context) {
	t.Helper()
	pool, f := setupTestDB(t)
	ctx := context.Background()

	var orderID uuid.UUID
	err := pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_amount)
		VALUES ($1, 'CONFIRMED', 100.00)
		RETURNING id
	`, f.customer).Scan(&orderID)
	if err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, 1, 100.00)
	`, orderID, f.widgetB)
	if err != nil {
		t.Fatalf("Failed to seed order item: %v", err)
	}

	return pool, f, core.NewShipmentService(pool), orderID, ctx
}

func orderStatus(t *testing.T, ctx context.Context, pool *pgxpool.Pool, orderID uuid.UUID) core.OrderStatus {
	t.Helper()
	var status core.OrderStatus
	if err := pool.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1", orderID).Scan(&status); err != nil {
		t.Fatalf("Failed to read order status: %v", err)
	}
	return status
}

func TestShipment_CreateMarksOrderShipped(t *testing.T) {
	pool, _, shipments, orderID, ctx := setupShipmentTest(t)
	defer pool.Close()

	sh, err := shipments.CreateShipment(ctx, orderID, "BlueDart", nil)
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}
	if sh.Status != "Pending" {
		t.Errorf("Expected shipment status Pending, got %s", sh.Status)
	}
	if sh.ShippedAt == nil {
		t.Error("Expected shipped_at set")
	}
	if sh.EstimatedDelivery == nil {
		t.Fatal("Expected estimated_delivery set")
	}
	days := time.Until(*sh.EstimatedDelivery).Hours() / 24
	if days < 4.9 || days > 5.1 {
		t.Errorf("Expected delivery estimate ~5 days out, got %.2f days", days)
	}
	if got := orderStatus(t, ctx, pool, orderID); got != core.OrderShipped {
		t.Errorf("Expected order SHIPPED, got %s", got)
	}

	if _, err := shipments.CreateShipment(ctx, uuid.New(), "BlueDart", nil); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown order, got %v", err)
	}
}

func TestShipment_DeliveredAdvancesOrder(t *testing.T) {
	pool, _, shipments, orderID, ctx := setupShipmentTest(t)
	defer pool.Close()

	sh, err := shipments.CreateShipment(ctx, orderID, "BlueDart", nil)
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	// Lower-case carrier vocabulary is recognized.
	updated, err := shipments.UpdateShipmentStatus(ctx, sh.ID, "delivered")
	if err != nil {
		t.Fatalf("UpdateShipmentStatus failed: %v", err)
	}
	if updated.Status != "delivered" {
		t.Errorf("Expected shipment status stored verbatim, got %s", updated.Status)
	}
	if got := orderStatus(t, ctx, pool, orderID); got != core.OrderDelivered {
		t.Errorf("Expected order DELIVERED, got %s", got)
	}
}

func TestShipment_UnmappedStatusLeavesOrderAlone(t *testing.T) {
	pool, _, shipments, orderID, ctx := setupShipmentTest(t)
	defer pool.Close()

	sh, err := shipments.CreateShipment(ctx, orderID, "BlueDart", nil)
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	updated, err := shipments.UpdateShipmentStatus(ctx, sh.ID, "out_for_delivery")
	if err != nil {
		t.Fatalf("UpdateShipmentStatus failed: %v", err)
	}
	if updated.Status != "out_for_delivery" {
		t.Errorf("Expected shipment status updated, got %s", updated.Status)
	}
	// The order keeps the SHIPPED status from shipment creation.
	if got := orderStatus(t, ctx, pool, orderID); got != core.OrderShipped {
		t.Errorf("Expected order still SHIPPED, got %s", got)
	}

	if _, err := shipments.UpdateShipmentStatus(ctx, uuid.New(), "delivered"); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown shipment, got %v", err)
	}
}

func TestShipment_Queries(t *testing.T) {
	pool, f, shipments, orderID, ctx := setupShipmentTest(t)
	defer pool.Close()

	created, err := shipments.CreateShipment(ctx, orderID, "BlueDart", nil)
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	byOrder, err := shipments.GetShipmentByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("GetShipmentByOrder failed: %v", err)
	}
	if byOrder.ID != created.ID {
		t.Errorf("Expected shipment %s, got %s", created.ID, byOrder.ID)
	}

	all, err := shipments.GetAllShipments(ctx)
	if err != nil {
		t.Fatalf("GetAllShipments failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 shipment, got %d", len(all))
	}

	// Widget B belongs to the test seller, so the seller view includes the
	// shipment; a stranger's view is empty.
	bySeller, err := shipments.GetShipmentsBySeller(ctx, f.seller)
	if err != nil {
		t.Fatalf("GetShipmentsBySeller failed: %v", err)
	}
	if len(bySeller) != 1 {
		t.Errorf("Expected 1 shipment for seller, got %d", len(bySeller))
	}
	bySeller, err = shipments.GetShipmentsBySeller(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetShipmentsBySeller failed: %v", err)
	}
	if len(bySeller) != 0 {
		t.Errorf("Expected no shipments for stranger, got %d", len(bySeller))
	}

	if _, err := shipments.GetShipmentByOrder(ctx, uuid.New()); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}
