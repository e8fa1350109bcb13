package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockLedger is the append-only record of every stock quantity change.
// Entries are never updated or deleted; corrections are appended as new
// entries whose reason describes the correction. The ledger does not enforce
// non-negativity — that is checked by the inventory service before recording.
type StockLedger struct {
	pool *pgxpool.Pool
}

func NewStockLedger(pool *pgxpool.Pool) *StockLedger {
	return &StockLedger{pool: pool}
}

// RecordTx appends one movement within the caller's transaction, so the entry
// commits atomically with the inventory write that caused it.
func (l *StockLedger) RecordTx(ctx context.Context, tx pgx.Tx, m StockMovement) (*StockMovement, error) {
	movementType := m.Type
	if movementType == "" {
		movementType = MovementAdjustment
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO stock_movements (warehouse_id, product_id, type, quantity, reason, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, type, created_at
	`, m.WarehouseID, m.ProductID, movementType, m.Quantity, m.Reason, m.ReferenceType, m.ReferenceID).
		Scan(&m.ID, &m.Type, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append stock movement: %w", err)
	}
	return &m, nil
}

// Query returns movements newest first, optionally narrowed by warehouse
// and/or product. Both filters nil returns the full ledger.
func (l *StockLedger) Query(ctx context.Context, warehouseID, productID *uuid.UUID) ([]MovementView, error) {
	const base = `
		SELECT sm.id, sm.warehouse_id, w.name, sm.product_id, p.name,
		       sm.type, sm.quantity, COALESCE(sm.reason, ''), sm.reference_type, sm.reference_id, sm.created_at
		FROM stock_movements sm
		JOIN warehouses w ON w.id = sm.warehouse_id
		JOIN products p   ON p.id = sm.product_id`

	var (
		rows pgx.Rows
		err  error
	)
	switch {
	case warehouseID != nil && productID != nil:
		rows, err = l.pool.Query(ctx, base+`
			WHERE sm.warehouse_id = $1 AND sm.product_id = $2
			ORDER BY sm.created_at DESC`, *warehouseID, *productID)
	case warehouseID != nil:
		rows, err = l.pool.Query(ctx, base+`
			WHERE sm.warehouse_id = $1
			ORDER BY sm.created_at DESC`, *warehouseID)
	case productID != nil:
		rows, err = l.pool.Query(ctx, base+`
			WHERE sm.product_id = $1
			ORDER BY sm.created_at DESC`, *productID)
	default:
		rows, err = l.pool.Query(ctx, base+`
			ORDER BY sm.created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []MovementView
	for rows.Next() {
		var mv MovementView
		if err := rows.Scan(&mv.ID, &mv.WarehouseID, &mv.WarehouseName, &mv.ProductID, &mv.ProductName,
			&mv.Type, &mv.Quantity, &mv.Reason, &mv.ReferenceType, &mv.ReferenceID, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, mv)
	}
	return movements, rows.Err()
}

// SumDeltas returns the sum of all recorded deltas for a (warehouse, product)
// pair. Consistency property: seed quantity + SumDeltas equals the current
// warehouse_inventory quantity (the seed is zero except for rows backfilled
// from the legacy product quantity).
func (l *StockLedger) SumDeltas(ctx context.Context, warehouseID, productID uuid.UUID) (int, error) {
	var total int
	err := l.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE warehouse_id = $1 AND product_id = $2
	`, warehouseID, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum movement deltas: %w", err)
	}
	return total, nil
}
