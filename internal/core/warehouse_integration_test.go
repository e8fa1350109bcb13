package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"omnicart-backend/internal/core"
)

func TestWarehouse_CRUD(t *testing.T) {
	pool, _ := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewWarehouseService(pool)

	capacity := 1000
	created, err := svc.CreateWarehouse(ctx, core.CreateWarehouseRequest{
		Name:     "North DC",
		Location: "Pune",
		Capacity: &capacity,
	})
	if err != nil {
		t.Fatalf("CreateWarehouse failed: %v", err)
	}
	if !created.Active {
		t.Error("Expected new warehouse active by default")
	}

	got, err := svc.GetWarehouse(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetWarehouse failed: %v", err)
	}
	if got.Name != "North DC" || got.Location != "Pune" || got.Capacity == nil || *got.Capacity != 1000 {
		t.Errorf("Unexpected warehouse: %+v", got)
	}

	inactive := false
	newName := "North DC 2"
	updated, err := svc.UpdateWarehouse(ctx, created.ID, core.UpdateWarehouseRequest{
		Name:   &newName,
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateWarehouse failed: %v", err)
	}
	if updated.Name != "North DC 2" || updated.Active {
		t.Errorf("Partial update went wrong: %+v", updated)
	}
	// Untouched fields survive.
	if updated.Location != "Pune" || updated.Capacity == nil || *updated.Capacity != 1000 {
		t.Errorf("Expected location and capacity unchanged: %+v", updated)
	}

	list, err := svc.ListWarehouses(ctx)
	if err != nil {
		t.Fatalf("ListWarehouses failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 warehouse, got %d", len(list))
	}

	if err := svc.DeleteWarehouse(ctx, created.ID); err != nil {
		t.Fatalf("DeleteWarehouse failed: %v", err)
	}
	if _, err := svc.GetWarehouse(ctx, created.ID); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError after delete, got %v", err)
	}
	if err := svc.DeleteWarehouse(ctx, uuid.New()); !core.IsNotFound(err) {
		t.Errorf("Expected NotFoundError for unknown warehouse, got %v", err)
	}
}

func TestWarehouse_DeleteRefusedWhileStocked(t *testing.T) {
	pool, f := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewWarehouseService(pool)
	inv := core.NewInventoryService(pool, core.NewStockLedger(pool))

	wh, err := svc.CreateWarehouse(ctx, core.CreateWarehouseRequest{Name: "Stocked"})
	if err != nil {
		t.Fatalf("CreateWarehouse failed: %v", err)
	}
	err = inv.AdjustInventory(ctx, core.AdjustRequest{
		WarehouseID:   &wh.ID,
		ProductID:     f.widgetB,
		QuantityDelta: 3,
		Type:          core.MovementInbound,
		Reason:        "Initial stock",
	})
	if err != nil {
		t.Fatalf("AdjustInventory failed: %v", err)
	}

	err = svc.DeleteWarehouse(ctx, wh.ID)
	var validation *core.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError for stocked warehouse, got %v", err)
	}
}
