package app

import (
	"context"

	"github.com/google/uuid"

	"omnicart-backend/internal/core"
)

// ApplicationService is the single interface all adapters call. It decouples
// presentation from business logic. Implementations must contain no display
// logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, email, password string) (*core.User, error)

	// RegisterUser creates a new account.
	RegisterUser(ctx context.Context, req core.CreateUserRequest) (*core.User, error)

	// GetUser returns a user profile by id.
	GetUser(ctx context.Context, id uuid.UUID) (*core.User, error)

	// Cart operations for the authenticated user.
	GetCart(ctx context.Context, userID uuid.UUID) ([]core.CartItem, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// Catalog.
	CreateProduct(ctx context.Context, req core.CreateProductRequest) (*core.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.Product, error)

	// Inventory. AdjustInventory is the sole mutation path for stock;
	// UpdateProductQuantity is the legacy flat-quantity endpoint expressed as
	// an adjustment against the default warehouse.
	AdjustInventory(ctx context.Context, req core.AdjustRequest) error
	UpdateProductQuantity(ctx context.Context, productID uuid.UUID, newQuantity int) error
	DeleteInventory(ctx context.Context, warehouseID *uuid.UUID, productID uuid.UUID) error
	GetProductQuantity(ctx context.Context, productID uuid.UUID) (int, error)
	GetAllInventory(ctx context.Context) ([]core.InventoryView, error)
	GetInventoryBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.InventoryView, error)
	GetAllWarehouseInventory(ctx context.Context) ([]core.WarehouseInventoryView, error)
	GetWarehouseInventory(ctx context.Context, warehouseID uuid.UUID) ([]core.WarehouseInventoryView, error)
	GetWarehouseInventoryBySeller(ctx context.Context, sellerID uuid.UUID, warehouseID *uuid.UUID) ([]core.WarehouseInventoryView, error)
	GetStockMovements(ctx context.Context, warehouseID, productID *uuid.UUID) ([]core.MovementView, error)

	// Warehouses.
	CreateWarehouse(ctx context.Context, req core.CreateWarehouseRequest) (*core.Warehouse, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*core.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]core.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, req core.UpdateWarehouseRequest) (*core.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error

	// Orders.
	PlaceOrder(ctx context.Context, userID uuid.UUID, items []core.OrderItemRequest) (*core.OrderView, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*core.OrderView, error)
	GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]core.OrderView, error)
	GetAllOrders(ctx context.Context) ([]core.OrderView, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status core.OrderStatus, actorID *uuid.UUID) (*core.Order, error)

	// Shipments.
	CreateShipment(ctx context.Context, orderID uuid.UUID, logisticsPartner string, trackingNumber *string) (*core.Shipment, error)
	UpdateShipmentStatus(ctx context.Context, shipmentID uuid.UUID, status string) (*core.Shipment, error)
	GetShipmentByOrder(ctx context.Context, orderID uuid.UUID) (*core.Shipment, error)
	GetAllShipments(ctx context.Context) ([]core.Shipment, error)
	GetShipmentsBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.Shipment, error)

	// Reporting.
	GetDashboard(ctx context.Context) (*core.Dashboard, error)
	ListAuditLogs(ctx context.Context, limit int) ([]core.AuditLog, error)
}
