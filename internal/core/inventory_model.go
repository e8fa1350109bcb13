package core

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementInbound    MovementType = "INBOUND"
	MovementOutbound   MovementType = "OUTBOUND"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementTransfer   MovementType = "TRANSFER"
)

// Warehouse is a physical storage location. The oldest active warehouse acts
// as the implicit default for adjustments that name no warehouse.
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseInventory is the current quantity of one product in one warehouse.
// Invariant: Quantity equals the sum of all stock movement deltas recorded for
// the (warehouse, product) pair, and is never negative.
type WarehouseInventory struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// StockMovement is one immutable ledger entry. Quantity is the signed delta,
// not the resulting total.
type StockMovement struct {
	ID            uuid.UUID    `json:"id"`
	WarehouseID   uuid.UUID    `json:"warehouse_id"`
	ProductID     uuid.UUID    `json:"product_id"`
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason,omitempty"`
	ReferenceType *string      `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID   `json:"reference_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// AdjustRequest describes one inventory adjustment. WarehouseID nil means
// "use the default warehouse". Type defaults to ADJUSTMENT when empty.
type AdjustRequest struct {
	WarehouseID   *uuid.UUID
	ProductID     uuid.UUID
	QuantityDelta int
	Type          MovementType
	Reason        string
	ReferenceType *string
	ReferenceID   *uuid.UUID
}

// InventoryView is the product-level read projection: one row per catalog
// product with its aggregate quantity, regardless of warehouse layout.
type InventoryView struct {
	ProductID    uuid.UUID  `json:"product_id"`
	ProductName  string     `json:"product_name"`
	CategoryName *string    `json:"category_name,omitempty"`
	Quantity     int        `json:"quantity"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// WarehouseInventoryView is the per-warehouse read projection. Products with
// no inventory row in the warehouse appear with the documented fallback
// quantity — absence means "not yet stocked", never an error.
type WarehouseInventoryView struct {
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name"`
	ProductID     uuid.UUID  `json:"product_id"`
	ProductName   string     `json:"product_name"`
	CategoryName  *string    `json:"category_name,omitempty"`
	Quantity      int        `json:"quantity"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

// MovementView is a ledger entry joined with warehouse and product names.
type MovementView struct {
	ID            uuid.UUID    `json:"id"`
	WarehouseID   uuid.UUID    `json:"warehouse_id"`
	WarehouseName string       `json:"warehouse_name"`
	ProductID     uuid.UUID    `json:"product_id"`
	ProductName   string       `json:"product_name"`
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason,omitempty"`
	ReferenceType *string      `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID   `json:"reference_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
