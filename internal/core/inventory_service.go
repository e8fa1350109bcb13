package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"omnicart-backend/internal/metrics"
)

// InventoryService is the only path permitted to mutate warehouse inventory,
// the stock ledger, or the product aggregate quantity. Every mutating
// operation runs inside one transaction: on any failure nothing is visible.
type InventoryService interface {
	// AdjustInventory applies one signed quantity delta in its own transaction.
	AdjustInventory(ctx context.Context, req AdjustRequest) error
	// AdjustTx applies one delta within the caller's transaction. Used by the
	// order workflow to keep reservations atomic with order persistence.
	AdjustTx(ctx context.Context, tx pgx.Tx, req AdjustRequest) error
	// DeleteInventory zeroes and removes the (warehouse, product) row.
	// Idempotent: a missing row is a successful no-op.
	DeleteInventory(ctx context.Context, warehouseID *uuid.UUID, productID uuid.UUID) error
	// GetProductQuantity returns the aggregate quantity across all warehouses,
	// falling back to the legacy flat quantity for never-stocked products.
	GetProductQuantity(ctx context.Context, productID uuid.UUID) (int, error)

	// Read projections over the full catalog. A product with no inventory row
	// is reported with the documented fallback quantity, never an error.
	GetAllInventory(ctx context.Context) ([]InventoryView, error)
	GetInventoryBySeller(ctx context.Context, sellerID uuid.UUID) ([]InventoryView, error)
	GetAllWarehouseInventory(ctx context.Context) ([]WarehouseInventoryView, error)
	GetWarehouseInventory(ctx context.Context, warehouseID uuid.UUID) ([]WarehouseInventoryView, error)
	GetWarehouseInventoryBySeller(ctx context.Context, sellerID uuid.UUID, warehouseID *uuid.UUID) ([]WarehouseInventoryView, error)

	// GetStockMovements returns ledger entries, newest first.
	GetStockMovements(ctx context.Context, warehouseID, productID *uuid.UUID) ([]MovementView, error)
}

type inventoryService struct {
	pool   *pgxpool.Pool
	ledger *StockLedger
}

func NewInventoryService(pool *pgxpool.Pool, ledger *StockLedger) InventoryService {
	return &inventoryService{pool: pool, ledger: ledger}
}

// DefaultWarehouseName is the name given to the warehouse created on demand
// when an adjustment names no warehouse and no active warehouse exists.
const DefaultWarehouseName = "Main Warehouse"

func (s *inventoryService) AdjustInventory(ctx context.Context, req AdjustRequest) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.AdjustTx(ctx, tx, req); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit inventory adjustment: %w", err)
	}

	movementType := req.Type
	if movementType == "" {
		movementType = MovementAdjustment
	}
	metrics.StockMovements.WithLabelValues(string(movementType)).Inc()
	return nil
}

// AdjustTx performs the full adjustment sequence: resolve warehouse and
// product, lazily seed the inventory row, enforce non-negativity, write the
// new quantity, refresh the product aggregate, and append the ledger entry.
//
// The product row is locked FOR UPDATE first, which serializes concurrent
// adjustments for the same product: the read-compute-write on the inventory
// row and the aggregate refresh cannot interleave between two transactions.
func (s *inventoryService) AdjustTx(ctx context.Context, tx pgx.Tx, req AdjustRequest) error {
	if req.ProductID == uuid.Nil {
		return &ValidationError{Msg: "productId is required"}
	}
	if req.QuantityDelta == 0 {
		return &ValidationError{Msg: "quantityDelta must be non-zero"}
	}

	warehouse, err := s.resolveWarehouseTx(ctx, tx, req.WarehouseID)
	if err != nil {
		return err
	}

	var productName string
	var legacyQty *int
	err = tx.QueryRow(ctx,
		"SELECT name, quantity FROM products WHERE id = $1 FOR UPDATE",
		req.ProductID,
	).Scan(&productName, &legacyQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "product", ID: req.ProductID.String()}
		}
		return fmt.Errorf("failed to resolve product: %w", err)
	}

	var invID uuid.UUID
	var current int
	err = tx.QueryRow(ctx, `
		SELECT id, quantity FROM warehouse_inventory
		WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE
	`, warehouse.ID, req.ProductID).Scan(&invID, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lazy creation. Seed from the legacy flat quantity only when no
		// warehouse anywhere holds stock for this product (migration bridge);
		// otherwise start at zero.
		var existingTotal int
		if err := tx.QueryRow(ctx,
			"SELECT COALESCE(SUM(quantity), 0) FROM warehouse_inventory WHERE product_id = $1",
			req.ProductID,
		).Scan(&existingTotal); err != nil {
			return fmt.Errorf("failed to sum existing inventory: %w", err)
		}
		seed := 0
		if existingTotal == 0 && legacyQty != nil {
			seed = *legacyQty
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO warehouse_inventory (warehouse_id, product_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, warehouse.ID, req.ProductID, seed).Scan(&invID); err != nil {
			return fmt.Errorf("failed to create inventory row: %w", err)
		}
		current = seed
	} else if err != nil {
		return fmt.Errorf("failed to lock inventory row: %w", err)
	}

	next := current + req.QuantityDelta
	if next < 0 {
		metrics.InsufficientStock.Inc()
		return &InsufficientStockError{ProductName: productName}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE warehouse_inventory SET quantity = $1, last_updated = NOW()
		WHERE id = $2
	`, next, invID); err != nil {
		return fmt.Errorf("failed to update inventory row: %w", err)
	}

	// Refresh the cached aggregate from the per-warehouse rows. The aggregate
	// is a read optimization, never authoritative; it is recomputed here and
	// nowhere else.
	if _, err := tx.Exec(ctx, `
		UPDATE products
		SET quantity = (SELECT COALESCE(SUM(quantity), 0) FROM warehouse_inventory WHERE product_id = $1),
		    updated_at = NOW()
		WHERE id = $1
	`, req.ProductID); err != nil {
		return fmt.Errorf("failed to refresh product aggregate: %w", err)
	}

	_, err = s.ledger.RecordTx(ctx, tx, StockMovement{
		WarehouseID:   warehouse.ID,
		ProductID:     req.ProductID,
		Type:          req.Type,
		Quantity:      req.QuantityDelta,
		Reason:        req.Reason,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	})
	return err
}

func (s *inventoryService) DeleteInventory(ctx context.Context, warehouseID *uuid.UUID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return &ValidationError{Msg: "productId is required"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	warehouse, err := s.resolveWarehouseTx(ctx, tx, warehouseID)
	if err != nil {
		return err
	}
	// Lock the product row first, matching the lock order of AdjustTx.
	var locked uuid.UUID
	err = tx.QueryRow(ctx, "SELECT id FROM products WHERE id = $1 FOR UPDATE", productID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: "product", ID: productID.String()}
		}
		return fmt.Errorf("failed to resolve product: %w", err)
	}

	var invID uuid.UUID
	var current int
	err = tx.QueryRow(ctx, `
		SELECT id, quantity FROM warehouse_inventory
		WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE
	`, warehouse.ID, productID).Scan(&invID, &current)
	if errors.Is(err, pgx.ErrNoRows) {
		// Nothing to delete: idempotent success.
		return tx.Commit(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to lock inventory row: %w", err)
	}

	if current > 0 {
		refType := "DELETE"
		err = s.AdjustTx(ctx, tx, AdjustRequest{
			WarehouseID:   &warehouse.ID,
			ProductID:     productID,
			QuantityDelta: -current,
			Type:          MovementAdjustment,
			Reason:        "Delete inventory",
			ReferenceType: &refType,
		})
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM warehouse_inventory WHERE id = $1 AND quantity = 0", invID,
	); err != nil {
		return fmt.Errorf("failed to remove inventory row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit inventory delete: %w", err)
	}
	if current > 0 {
		metrics.StockMovements.WithLabelValues(string(MovementAdjustment)).Inc()
	}
	return nil
}

func (s *inventoryService) GetProductQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	var legacyQty *int
	err := s.pool.QueryRow(ctx, "SELECT quantity FROM products WHERE id = $1", productID).Scan(&legacyQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &NotFoundError{Entity: "product", ID: productID.String()}
		}
		return 0, fmt.Errorf("failed to resolve product: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM warehouse_inventory WHERE product_id = $1",
		productID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum inventory: %w", err)
	}

	// Migration compatibility: a product never stocked through the warehouse
	// ledger still reports its legacy flat quantity.
	if total == 0 && legacyQty != nil {
		return *legacyQty, nil
	}
	return total, nil
}

// ── Read projections ─────────────────────────────────────────────────────────

func (s *inventoryService) GetAllInventory(ctx context.Context) ([]InventoryView, error) {
	return s.inventoryProjection(ctx, nil)
}

func (s *inventoryService) GetInventoryBySeller(ctx context.Context, sellerID uuid.UUID) ([]InventoryView, error) {
	return s.inventoryProjection(ctx, &sellerID)
}

func (s *inventoryService) inventoryProjection(ctx context.Context, sellerID *uuid.UUID) ([]InventoryView, error) {
	query := `
		SELECT p.id, p.name, p.category, p.quantity,
		       COALESCE(SUM(wi.quantity), 0), COUNT(wi.id), MAX(wi.last_updated)
		FROM products p
		LEFT JOIN warehouse_inventory wi ON wi.product_id = p.id`
	args := []any{}
	if sellerID != nil {
		query += " WHERE p.seller_id = $1"
		args = append(args, *sellerID)
	}
	query += " GROUP BY p.id ORDER BY p.name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory projection: %w", err)
	}
	defer rows.Close()

	views := []InventoryView{}
	for rows.Next() {
		var v InventoryView
		var legacyQty *int
		var total, rowCount int
		if err := rows.Scan(&v.ProductID, &v.ProductName, &v.CategoryName, &legacyQty,
			&total, &rowCount, &v.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan inventory projection: %w", err)
		}
		v.Quantity = total
		if total == 0 && rowCount == 0 && legacyQty != nil {
			v.Quantity = *legacyQty
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *inventoryService) GetAllWarehouseInventory(ctx context.Context) ([]WarehouseInventoryView, error) {
	warehouse, err := s.getOrCreateDefaultWarehouse(ctx)
	if err != nil {
		return nil, err
	}
	// The default-warehouse view keeps the legacy fallback for unstocked rows.
	return s.warehouseProjection(ctx, warehouse, nil, true)
}

func (s *inventoryService) GetWarehouseInventory(ctx context.Context, warehouseID uuid.UUID) ([]WarehouseInventoryView, error) {
	warehouse, err := s.getWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return s.warehouseProjection(ctx, warehouse, nil, false)
}

func (s *inventoryService) GetWarehouseInventoryBySeller(ctx context.Context, sellerID uuid.UUID, warehouseID *uuid.UUID) ([]WarehouseInventoryView, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", sellerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to resolve seller: %w", err)
	}
	if !exists {
		// An unknown seller yields an empty view, not an error.
		return []WarehouseInventoryView{}, nil
	}

	if warehouseID != nil {
		warehouse, err := s.getWarehouse(ctx, *warehouseID)
		if err != nil {
			return nil, err
		}
		return s.warehouseProjection(ctx, warehouse, &sellerID, false)
	}
	warehouse, err := s.getOrCreateDefaultWarehouse(ctx)
	if err != nil {
		return nil, err
	}
	return s.warehouseProjection(ctx, warehouse, &sellerID, true)
}

// warehouseProjection builds the per-warehouse view over the whole catalog
// (optionally narrowed to one seller's products). legacyFallback selects the
// quantity shown for products with no inventory row in this warehouse: the
// legacy flat quantity for the default-warehouse views, zero for explicit
// warehouse views.
func (s *inventoryService) warehouseProjection(ctx context.Context, warehouse *Warehouse, sellerID *uuid.UUID, legacyFallback bool) ([]WarehouseInventoryView, error) {
	query := `
		SELECT p.id, p.name, p.category, p.quantity, wi.quantity, wi.last_updated
		FROM products p
		LEFT JOIN warehouse_inventory wi ON wi.product_id = p.id AND wi.warehouse_id = $1`
	args := []any{warehouse.ID}
	if sellerID != nil {
		query += " WHERE p.seller_id = $2"
		args = append(args, *sellerID)
	}
	query += " ORDER BY p.name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouse projection: %w", err)
	}
	defer rows.Close()

	views := []WarehouseInventoryView{}
	for rows.Next() {
		var v WarehouseInventoryView
		var legacyQty, rowQty *int
		if err := rows.Scan(&v.ProductID, &v.ProductName, &v.CategoryName, &legacyQty,
			&rowQty, &v.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse projection: %w", err)
		}
		v.WarehouseID = warehouse.ID
		v.WarehouseName = warehouse.Name
		switch {
		case rowQty != nil:
			v.Quantity = *rowQty
		case legacyFallback && legacyQty != nil:
			v.Quantity = *legacyQty
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *inventoryService) GetStockMovements(ctx context.Context, warehouseID, productID *uuid.UUID) ([]MovementView, error) {
	return s.ledger.Query(ctx, warehouseID, productID)
}

// ── Warehouse resolution ─────────────────────────────────────────────────────

func (s *inventoryService) getWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	var w Warehouse
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
		FROM warehouses WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "warehouse", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}
	return &w, nil
}

func (s *inventoryService) getOrCreateDefaultWarehouse(ctx context.Context) (*Warehouse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := s.resolveWarehouseTx(ctx, tx, nil)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit default warehouse: %w", err)
	}
	return w, nil
}

// resolveWarehouseTx returns the named warehouse, or the default warehouse
// when id is nil: the oldest active warehouse, created on demand with a fixed
// name and no capacity limit if no active warehouse exists.
func (s *inventoryService) resolveWarehouseTx(ctx context.Context, tx pgx.Tx, id *uuid.UUID) (*Warehouse, error) {
	var w Warehouse
	if id != nil {
		err := tx.QueryRow(ctx, `
			SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
			FROM warehouses WHERE id = $1
		`, *id).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Entity: "warehouse", ID: id.String()}
			}
			return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
		}
		return &w, nil
	}

	err := tx.QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
		FROM warehouses
		WHERE active = true
		ORDER BY created_at, id
		LIMIT 1
	`).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to fetch default warehouse: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO warehouses (name, location, capacity, active)
		VALUES ($1, 'Default', NULL, true)
		RETURNING id, name, location, capacity, active, created_at, updated_at
	`, DefaultWarehouseName).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create default warehouse: %w", err)
	}
	return &w, nil
}
