package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"omnicart-backend/internal/core"
)

func setupInventoryTest(t *testing.T) (*pgxpool.Pool, testFixtures, core.InventoryService, *core.StockLedger, context.Context) {
	t.Helper()
	pool, f := setupTestDB(t)
	ledger := core.NewStockLedger(pool)
	return pool, f, core.NewInventoryService(pool, ledger), ledger, context.Background()
}

// defaultWarehouseID returns the id of the single warehouse bootstrapped by
// the first default-warehouse adjustment.
func defaultWarehouseID(t *testing.T, ctx context.Context, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(ctx,
		"SELECT id FROM warehouses WHERE active = true ORDER BY created_at, id LIMIT 1").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to find default warehouse: %v", err)
	}
	return id
}

func inventoryQty(t *testing.T, ctx context.Context, pool *pgxpool.Pool, warehouseID, productID uuid.UUID) (int, bool) {
	t.Helper()
	var qty int
	err := pool.QueryRow(ctx,
		"SELECT quantity FROM warehouse_inventory WHERE warehouse_id = $1 AND product_id = $2",
		warehouseID, productID).Scan(&qty)
	if err != nil {
		return 0, false
	}
	return qty, true
}

func aggregateQty(t *testing.T, ctx context.Context, pool *pgxpool.Pool, productID uuid.UUID) *int {
	t.Helper()
	var qty *int
	if err := pool.QueryRow(ctx, "SELECT quantity FROM products WHERE id = $1", productID).Scan(&qty); err != nil {
		t.Fatalf("Failed to read product quantity: %v", err)
	}
	return qty
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestInventory_DefaultWarehouseBootstrap(t *testing.T) {
	pool, f, inv, _, ctx := setupInventoryTest(t)
	defer pool.Close()

	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: 10,
		Type:          core.MovementInbound,
		Reason:        "Initial stock",
	})
	if err != nil {
		t.Fatalf("AdjustInventory failed: %v", err)
	}

	var name string
	var capacity *int
	err = pool.QueryRow(ctx, "SELECT name, capacity FROM warehouses").Scan(&name, &capacity)
	if err != nil {
		t.Fatalf("Expected exactly one warehouse: %v", err)
	}
	if name != core.DefaultWarehouseName {
		t.Errorf("Expected default warehouse name %q, got %q", core.DefaultWarehouseName, name)
	}
	if capacity != nil {
		t.Errorf("Expected nil capacity on default warehouse, got %d", *capacity)
	}

	// A second adjustment reuses the same warehouse.
	err = inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: 5,
		Type:          core.MovementInbound,
		Reason:        "Restock",
	})
	if err != nil {
		t.Fatalf("Second AdjustInventory failed: %v", err)
	}
	var warehouseCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM warehouses").Scan(&warehouseCount); err != nil {
		t.Fatalf("count: %v", err)
	}
	if warehouseCount != 1 {
		t.Errorf("Expected 1 warehouse, got %d", warehouseCount)
	}
}

func TestInventory_LegacySeedOnFirstAdjustment(t *testing.T) {
	pool, f, inv, ledger, ctx := setupInventoryTest(t)
	defer pool.Close()

	// Widget A carries a legacy quantity of 50 and no inventory rows. The
	// first adjustment seeds 50 and then applies the delta, recording only
	// the delta in the ledger.
	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetA,
		QuantityDelta: -10,
		Type:          core.MovementOutbound,
		Reason:        "Order placed",
	})
	if err != nil {
		t.Fatalf("AdjustInventory failed: %v", err)
	}

	wh := defaultWarehouseID(t, ctx, pool)
	qty, ok := inventoryQty(t, ctx, pool, wh, f.widgetA)
	if !ok || qty != 40 {
		t.Errorf("Expected inventory 40 after legacy seed 50 - 10, got %d (exists=%v)", qty, ok)
	}

	if agg := aggregateQty(t, ctx, pool, f.widgetA); agg == nil || *agg != 40 {
		t.Errorf("Expected aggregate 40, got %v", agg)
	}

	movements, err := ledger.Query(ctx, nil, &f.widgetA)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("Expected exactly 1 movement (the delta, not the seed), got %d", len(movements))
	}
	if movements[0].Quantity != -10 {
		t.Errorf("Expected movement delta -10, got %d", movements[0].Quantity)
	}

	// Seed 50 + sum of deltas -10 = current 40.
	sum, err := ledger.SumDeltas(ctx, wh, f.widgetA)
	if err != nil {
		t.Fatalf("SumDeltas failed: %v", err)
	}
	if 50+sum != qty {
		t.Errorf("Ledger consistency broken: seed 50 + sum %d != quantity %d", sum, qty)
	}
}

func TestInventory_InsufficientStockRejectsWholeAdjustment(t *testing.T) {
	pool, f, inv, ledger, ctx := setupInventoryTest(t)
	defer pool.Close()

	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: 5,
		Type:          core.MovementInbound,
		Reason:        "Initial stock",
	})
	if err != nil {
		t.Fatalf("Stocking failed: %v", err)
	}

	err = inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: -6,
		Type:          core.MovementOutbound,
		Reason:        "Oversell",
	})
	if !core.IsInsufficientStock(err) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}

	// Nothing from the failed adjustment is visible.
	wh := defaultWarehouseID(t, ctx, pool)
	qty, _ := inventoryQty(t, ctx, pool, wh, f.widgetB)
	if qty != 5 {
		t.Errorf("Expected quantity unchanged at 5, got %d", qty)
	}
	if agg := aggregateQty(t, ctx, pool, f.widgetB); agg == nil || *agg != 5 {
		t.Errorf("Expected aggregate unchanged at 5, got %v", agg)
	}
	movements, err := ledger.Query(ctx, nil, &f.widgetB)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 1 {
		t.Errorf("Expected 1 movement (the stocking only), got %d", len(movements))
	}
}

func TestInventory_AdjustValidation(t *testing.T) {
	pool, f, inv, _, ctx := setupInventoryTest(t)
	defer pool.Close()

	err := inv.AdjustInventory(ctx, core.AdjustRequest{ProductID: uuid.Nil, QuantityDelta: 1})
	var validation *core.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError for missing product id, got %v", err)
	}

	err = inv.AdjustInventory(ctx, core.AdjustRequest{ProductID: f.widgetA, QuantityDelta: 0})
	if err == nil {
		t.Error("Expected validation error for zero delta")
	}

	err = inv.AdjustInventory(ctx, core.AdjustRequest{ProductID: uuid.New(), QuantityDelta: 1})
	if !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown product, got %v", err)
	}

	missing := uuid.New()
	err = inv.AdjustInventory(ctx, core.AdjustRequest{
		WarehouseID:   &missing,
		ProductID:     f.widgetA,
		QuantityDelta: 1,
	})
	if !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown warehouse, got %v", err)
	}
}

func TestInventory_DeleteInventory(t *testing.T) {
	pool, f, inv, ledger, ctx := setupInventoryTest(t)
	defer pool.Close()

	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: 7,
		Type:          core.MovementInbound,
		Reason:        "Initial stock",
	})
	if err != nil {
		t.Fatalf("Stocking failed: %v", err)
	}
	wh := defaultWarehouseID(t, ctx, pool)

	if err := inv.DeleteInventory(ctx, nil, f.widgetB); err != nil {
		t.Fatalf("DeleteInventory failed: %v", err)
	}

	// The row is gone and a corrective -7 movement was appended.
	if _, ok := inventoryQty(t, ctx, pool, wh, f.widgetB); ok {
		t.Error("Expected inventory row removed")
	}
	movements, err := ledger.Query(ctx, &wh, &f.widgetB)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("Expected 2 movements (+7, -7), got %d", len(movements))
	}
	if movements[0].Quantity != -7 || movements[0].Reason != "Delete inventory" {
		t.Errorf("Expected newest movement -7 %q, got %d %q",
			"Delete inventory", movements[0].Quantity, movements[0].Reason)
	}
	if agg := aggregateQty(t, ctx, pool, f.widgetB); agg == nil || *agg != 0 {
		t.Errorf("Expected aggregate 0 after delete, got %v", agg)
	}

	// Deleting again is a no-op, not an error.
	if err := inv.DeleteInventory(ctx, nil, f.widgetB); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
	movements, _ = ledger.Query(ctx, &wh, &f.widgetB)
	if len(movements) != 2 {
		t.Errorf("Expected no new movements from no-op delete, got %d", len(movements))
	}
}

func TestInventory_GetProductQuantityLegacyFallback(t *testing.T) {
	pool, f, inv, _, ctx := setupInventoryTest(t)
	defer pool.Close()

	// Never stocked: falls back to the legacy flat quantity.
	qty, err := inv.GetProductQuantity(ctx, f.widgetA)
	if err != nil {
		t.Fatalf("GetProductQuantity failed: %v", err)
	}
	if qty != 50 {
		t.Errorf("Expected legacy fallback 50, got %d", qty)
	}

	// No legacy, no stock: zero.
	qty, err = inv.GetProductQuantity(ctx, f.widgetB)
	if err != nil {
		t.Fatalf("GetProductQuantity failed: %v", err)
	}
	if qty != 0 {
		t.Errorf("Expected 0, got %d", qty)
	}

	// Once stocked, the warehouse sum wins.
	err = inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetA,
		QuantityDelta: -20,
		Type:          core.MovementOutbound,
		Reason:        "Order placed",
	})
	if err != nil {
		t.Fatalf("AdjustInventory failed: %v", err)
	}
	qty, err = inv.GetProductQuantity(ctx, f.widgetA)
	if err != nil {
		t.Fatalf("GetProductQuantity failed: %v", err)
	}
	if qty != 30 {
		t.Errorf("Expected 30 from warehouse sum, got %d", qty)
	}

	if _, err := inv.GetProductQuantity(ctx, uuid.New()); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown product, got %v", err)
	}
}

func TestInventory_MovementQueryFiltersAndOrder(t *testing.T) {
	pool, f, inv, ledger, ctx := setupInventoryTest(t)
	defer pool.Close()

	deltas := []int{10, -3, 5}
	for _, d := range deltas {
		movementType := core.MovementInbound
		if d < 0 {
			movementType = core.MovementOutbound
		}
		err := inv.AdjustInventory(ctx, core.AdjustRequest{
			ProductID:     f.widgetB,
			QuantityDelta: d,
			Type:          movementType,
			Reason:        "flow",
		})
		if err != nil {
			t.Fatalf("AdjustInventory(%d) failed: %v", d, err)
		}
	}
	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetA,
		QuantityDelta: -1,
		Type:          core.MovementOutbound,
		Reason:        "other product",
	})
	if err != nil {
		t.Fatalf("AdjustInventory widgetA failed: %v", err)
	}

	// Product filter, newest first.
	movements, err := ledger.Query(ctx, nil, &f.widgetB)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("Expected 3 movements for widgetB, got %d", len(movements))
	}
	want := []int{5, -3, 10}
	for i, m := range movements {
		if m.Quantity != want[i] {
			t.Errorf("Position %d: expected delta %d, got %d", i, want[i], m.Quantity)
		}
	}

	// Warehouse filter sees all four.
	wh := defaultWarehouseID(t, ctx, pool)
	movements, err = ledger.Query(ctx, &wh, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 4 {
		t.Errorf("Expected 4 movements in warehouse, got %d", len(movements))
	}

	// Unfiltered equals warehouse view here.
	movements, err = ledger.Query(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(movements) != 4 {
		t.Errorf("Expected 4 movements total, got %d", len(movements))
	}
}

func TestInventory_SellerProjections(t *testing.T) {
	pool, f, inv, _, ctx := setupInventoryTest(t)
	defer pool.Close()

	err := inv.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     f.widgetB,
		QuantityDelta: 12,
		Type:          core.MovementInbound,
		Reason:        "Initial stock",
	})
	if err != nil {
		t.Fatalf("AdjustInventory failed: %v", err)
	}

	views, err := inv.GetInventoryBySeller(ctx, f.seller)
	if err != nil {
		t.Fatalf("GetInventoryBySeller failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 products for seller, got %d", len(views))
	}
	byName := map[string]int{}
	for _, v := range views {
		byName[v.ProductName] = v.Quantity
	}
	// Widget A is unstocked so the legacy quantity shows; Widget B shows the
	// warehouse sum.
	if byName["Widget A"] != 50 {
		t.Errorf("Expected Widget A quantity 50 (legacy), got %d", byName["Widget A"])
	}
	if byName["Widget B"] != 12 {
		t.Errorf("Expected Widget B quantity 12, got %d", byName["Widget B"])
	}

	// Unknown seller gets an empty view, not an error.
	whViews, err := inv.GetWarehouseInventoryBySeller(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatalf("GetWarehouseInventoryBySeller failed: %v", err)
	}
	if len(whViews) != 0 {
		t.Errorf("Expected empty view for unknown seller, got %d rows", len(whViews))
	}
}
