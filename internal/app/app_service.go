package app

import (
	"context"

	"github.com/google/uuid"

	"omnicart-backend/internal/core"
)

// Services bundles the domain services the facade delegates to.
type Services struct {
	Users      core.UserService
	Products   core.ProductService
	Inventory  core.InventoryService
	Warehouses core.WarehouseService
	Orders     core.OrderService
	Shipments  core.ShipmentService
	Analytics  core.AnalyticsService
	Audit      core.AuditService
}

type appService struct {
	svc Services
}

// NewApplicationService wires the domain services behind the facade.
func NewApplicationService(svc Services) ApplicationService {
	return &appService{svc: svc}
}

func (a *appService) AuthenticateUser(ctx context.Context, email, password string) (*core.User, error) {
	return a.svc.Users.Authenticate(ctx, email, password)
}

func (a *appService) RegisterUser(ctx context.Context, req core.CreateUserRequest) (*core.User, error) {
	return a.svc.Users.CreateUser(ctx, req)
}

func (a *appService) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	return a.svc.Users.GetUser(ctx, id)
}

func (a *appService) GetCart(ctx context.Context, userID uuid.UUID) ([]core.CartItem, error) {
	return a.svc.Users.GetCartItems(ctx, userID)
}

func (a *appService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return a.svc.Users.AddCartItem(ctx, userID, productID, quantity)
}

func (a *appService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return a.svc.Users.ClearCart(ctx, userID)
}

func (a *appService) CreateProduct(ctx context.Context, req core.CreateProductRequest) (*core.Product, error) {
	return a.svc.Products.CreateProduct(ctx, req)
}

func (a *appService) GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error) {
	return a.svc.Products.GetProduct(ctx, id)
}

func (a *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return a.svc.Products.ListProducts(ctx)
}

func (a *appService) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.Product, error) {
	return a.svc.Products.ListBySeller(ctx, sellerID)
}

func (a *appService) AdjustInventory(ctx context.Context, req core.AdjustRequest) error {
	return a.svc.Inventory.AdjustInventory(ctx, req)
}

// UpdateProductQuantity reconciles the legacy "set the flat quantity" request
// into a delta against the current aggregate, recorded like any other
// adjustment so the ledger stays complete.
func (a *appService) UpdateProductQuantity(ctx context.Context, productID uuid.UUID, newQuantity int) error {
	if newQuantity < 0 {
		return &core.ValidationError{Msg: "quantity must not be negative"}
	}
	current, err := a.svc.Inventory.GetProductQuantity(ctx, productID)
	if err != nil {
		return err
	}
	delta := newQuantity - current
	if delta == 0 {
		return nil
	}
	refType := "LEGACY"
	return a.svc.Inventory.AdjustInventory(ctx, core.AdjustRequest{
		ProductID:     productID,
		QuantityDelta: delta,
		Type:          core.MovementAdjustment,
		Reason:        "Legacy update",
		ReferenceType: &refType,
	})
}

func (a *appService) DeleteInventory(ctx context.Context, warehouseID *uuid.UUID, productID uuid.UUID) error {
	return a.svc.Inventory.DeleteInventory(ctx, warehouseID, productID)
}

func (a *appService) GetProductQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	return a.svc.Inventory.GetProductQuantity(ctx, productID)
}

func (a *appService) GetAllInventory(ctx context.Context) ([]core.InventoryView, error) {
	return a.svc.Inventory.GetAllInventory(ctx)
}

func (a *appService) GetInventoryBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.InventoryView, error) {
	return a.svc.Inventory.GetInventoryBySeller(ctx, sellerID)
}

func (a *appService) GetAllWarehouseInventory(ctx context.Context) ([]core.WarehouseInventoryView, error) {
	return a.svc.Inventory.GetAllWarehouseInventory(ctx)
}

func (a *appService) GetWarehouseInventory(ctx context.Context, warehouseID uuid.UUID) ([]core.WarehouseInventoryView, error) {
	return a.svc.Inventory.GetWarehouseInventory(ctx, warehouseID)
}

func (a *appService) GetWarehouseInventoryBySeller(ctx context.Context, sellerID uuid.UUID, warehouseID *uuid.UUID) ([]core.WarehouseInventoryView, error) {
	return a.svc.Inventory.GetWarehouseInventoryBySeller(ctx, sellerID, warehouseID)
}

func (a *appService) GetStockMovements(ctx context.Context, warehouseID, productID *uuid.UUID) ([]core.MovementView, error) {
	return a.svc.Inventory.GetStockMovements(ctx, warehouseID, productID)
}

func (a *appService) CreateWarehouse(ctx context.Context, req core.CreateWarehouseRequest) (*core.Warehouse, error) {
	return a.svc.Warehouses.CreateWarehouse(ctx, req)
}

func (a *appService) GetWarehouse(ctx context.Context, id uuid.UUID) (*core.Warehouse, error) {
	return a.svc.Warehouses.GetWarehouse(ctx, id)
}

func (a *appService) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	return a.svc.Warehouses.ListWarehouses(ctx)
}

func (a *appService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req core.UpdateWarehouseRequest) (*core.Warehouse, error) {
	return a.svc.Warehouses.UpdateWarehouse(ctx, id, req)
}

func (a *appService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	return a.svc.Warehouses.DeleteWarehouse(ctx, id)
}

func (a *appService) PlaceOrder(ctx context.Context, userID uuid.UUID, items []core.OrderItemRequest) (*core.OrderView, error) {
	return a.svc.Orders.PlaceOrder(ctx, userID, items)
}

func (a *appService) GetOrder(ctx context.Context, id uuid.UUID) (*core.OrderView, error) {
	return a.svc.Orders.GetOrder(ctx, id)
}

func (a *appService) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]core.OrderView, error) {
	return a.svc.Orders.GetOrdersByUser(ctx, userID)
}

func (a *appService) GetAllOrders(ctx context.Context) ([]core.OrderView, error) {
	return a.svc.Orders.GetAllOrders(ctx)
}

func (a *appService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status core.OrderStatus, actorID *uuid.UUID) (*core.Order, error) {
	return a.svc.Orders.UpdateOrderStatus(ctx, id, status, actorID)
}

func (a *appService) CreateShipment(ctx context.Context, orderID uuid.UUID, logisticsPartner string, trackingNumber *string) (*core.Shipment, error) {
	return a.svc.Shipments.CreateShipment(ctx, orderID, logisticsPartner, trackingNumber)
}

func (a *appService) UpdateShipmentStatus(ctx context.Context, shipmentID uuid.UUID, status string) (*core.Shipment, error) {
	return a.svc.Shipments.UpdateShipmentStatus(ctx, shipmentID, status)
}

func (a *appService) GetShipmentByOrder(ctx context.Context, orderID uuid.UUID) (*core.Shipment, error) {
	return a.svc.Shipments.GetShipmentByOrder(ctx, orderID)
}

func (a *appService) GetAllShipments(ctx context.Context) ([]core.Shipment, error) {
	return a.svc.Shipments.GetAllShipments(ctx)
}

func (a *appService) GetShipmentsBySeller(ctx context.Context, sellerID uuid.UUID) ([]core.Shipment, error) {
	return a.svc.Shipments.GetShipmentsBySeller(ctx, sellerID)
}

func (a *appService) GetDashboard(ctx context.Context) (*core.Dashboard, error) {
	return a.svc.Analytics.GetDashboard(ctx)
}

func (a *appService) ListAuditLogs(ctx context.Context, limit int) ([]core.AuditLog, error) {
	return a.svc.Audit.List(ctx, limit)
}
