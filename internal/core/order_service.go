package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omnicart-backend/internal/events"
	"omnicart-backend/internal/metrics"
	"omnicart-backend/internal/notify"
)

// LogisticsPartners are the carriers a new shipment is assigned from, picked
// uniformly at random.
var LogisticsPartners = []string{"Ekart", "Delhivery", "BlueDart", "Shadowfax"}

type OrderService interface {
	// PlaceOrder creates an order for the user. When the user's cart has items
	// the cart wins and the explicit items are ignored; the cart is cleared on
	// success. Returns ErrEmptyOrder when both sources are empty.
	PlaceOrder(ctx context.Context, userID uuid.UUID, items []OrderItemRequest) (*OrderView, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
	GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error)
	GetAllOrders(ctx context.Context) ([]OrderView, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus, actorID *uuid.UUID) (*Order, error)
}

type orderService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	audit     AuditService
	publisher events.Publisher
	mailer    notify.Mailer
	log       *zap.Logger
}

func NewOrderService(pool *pgxpool.Pool, inventory InventoryService, audit AuditService,
	publisher events.Publisher, mailer notify.Mailer, log *zap.Logger) OrderService {
	return &orderService{
		pool:      pool,
		inventory: inventory,
		audit:     audit,
		publisher: publisher,
		mailer:    mailer,
		log:       log,
	}
}

type orderLine struct {
	productID   uuid.UUID
	productName string
	quantity    int
	price       decimal.Decimal
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, items []OrderItemRequest) (*OrderView, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userEmail string
	err = tx.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&userEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: userID.String()}
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	// The cart takes priority over explicit items.
	cart, err := s.loadCartTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	requested := items
	fromCart := len(cart) > 0
	if fromCart {
		requested = cart
	}
	if len(requested) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]orderLine, 0, len(requested))
	total := decimal.Zero
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, &ValidationError{Msg: "item quantity must be positive"}
		}
		line, err := s.resolveLineTx(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
		total = total.Add(line.price.Mul(decimal.NewFromInt(int64(line.quantity))))
	}

	var order Order
	order.UserID = userID
	order.Status = OrderConfirmed
	order.TotalAmount = total
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, order_date
	`, userID, OrderConfirmed, total).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	refType := "ORDER_LINE"
	views := make([]OrderItemView, 0, len(lines))
	deducted := 0
	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, order.ID, line.productID, line.quantity, line.price); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}

		// Deduct the line from inventory inside a savepoint so a failed
		// deduction does not abort the surrounding transaction. The failure
		// is logged and the order proceeds; the per-warehouse row and the
		// ledger then lag the order until a corrective adjustment.
		// TODO: make line deductions fatal once historical orders with
		// missing movements have been reconciled.
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open savepoint: %w", err)
		}
		orderID := order.ID
		adjErr := s.inventory.AdjustTx(ctx, sp, AdjustRequest{
			ProductID:     line.productID,
			QuantityDelta: -line.quantity,
			Type:          MovementOutbound,
			Reason:        "Order placed",
			ReferenceType: &refType,
			ReferenceID:   &orderID,
		})
		if adjErr != nil {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, fmt.Errorf("failed to roll back savepoint: %w", rbErr)
			}
			s.log.Warn("inventory deduction failed for order line",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", line.productID.String()),
				zap.Int("quantity", line.quantity),
				zap.Error(adjErr),
			)
		} else if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to release savepoint: %w", err)
		} else {
			deducted++
		}

		views = append(views, OrderItemView{
			ProductID:   line.productID,
			ProductName: line.productName,
			Quantity:    line.quantity,
			Price:       line.price,
		})
	}

	estimated := time.Now().AddDate(0, 0, 4)
	partner := LogisticsPartners[rand.Intn(len(LogisticsPartners))]
	if _, err := tx.Exec(ctx, `
		INSERT INTO shipments (order_id, status, logistics_partner, estimated_delivery)
		VALUES ($1, 'PLACED', $2, $3)
	`, order.ID, partner, estimated); err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	if fromCart {
		if _, err := tx.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	if deducted > 0 {
		// Count only the line deductions whose savepoints survived to commit.
		metrics.StockMovements.WithLabelValues(string(MovementOutbound)).Add(float64(deducted))
	}
	newStatus := string(order.Status)
	s.audit.Log(ctx, &userID, "ORDER_PLACEMENT", "ORDER", order.ID.String(), nil, &newStatus)
	go s.notifyOrderCreated(order, len(views), userEmail)

	return &OrderView{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		Items:       views,
	}, nil
}

// resolveLineTx loads the product and verifies the aggregate stock covers the
// requested quantity. Unlike the per-warehouse deduction, a shortfall here is
// fatal to the whole order.
func (s *orderService) resolveLineTx(ctx context.Context, tx pgx.Tx, req OrderItemRequest) (*orderLine, error) {
	// The check runs against the cached aggregate quantity, which doubles as
	// the legacy flat quantity for never-stocked products.
	line := orderLine{productID: req.ProductID, quantity: req.Quantity}
	var available int
	err := tx.QueryRow(ctx,
		"SELECT name, price, COALESCE(quantity, 0) FROM products WHERE id = $1",
		req.ProductID,
	).Scan(&line.productName, &line.price, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "product", ID: req.ProductID.String()}
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if available < req.Quantity {
		metrics.InsufficientStock.Inc()
		return nil, &InsufficientStockError{ProductName: line.productName}
	}
	return &line, nil
}

func (s *orderService) loadCartTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]OrderItemRequest, error) {
	rows, err := tx.Query(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY added_at",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	defer rows.Close()

	var items []OrderItemRequest
	for rows.Next() {
		var it OrderItemRequest
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *orderService) notifyOrderCreated(order Order, itemCount int, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := events.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
		PlacedAt:    order.OrderDate,
	}
	if err := s.publisher.PublishOrderCreated(ctx, ev); err != nil {
		s.log.Warn("failed to publish order event",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
	if err := s.mailer.SendOrderConfirmation(ctx, email, order.ID); err != nil {
		s.log.Warn("failed to send order confirmation",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	views, err := s.queryOrders(ctx, "WHERE o.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, &NotFoundError{Entity: "order", ID: id.String()}
	}
	return &views[0], nil
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID uuid.UUID) ([]OrderView, error) {
	return s.queryOrders(ctx, "WHERE o.user_id = $1", userID)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]OrderView, error) {
	return s.queryOrders(ctx, "")
}

func (s *orderService) queryOrders(ctx context.Context, where string, args ...any) ([]OrderView, error) {
	query := `
		SELECT o.id, o.user_id, o.status, o.order_date, o.total_amount,
		       oi.product_id, p.name, oi.quantity, oi.price
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p     ON p.id = oi.product_id
		` + where + `
		ORDER BY o.order_date DESC, o.id, oi.id`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	views := []OrderView{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			o           OrderView
			productID   *uuid.UUID
			productName *string
			quantity    *int
			price       *decimal.Decimal
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.OrderDate, &o.TotalAmount,
			&productID, &productName, &quantity, &price); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		i, ok := index[o.ID]
		if !ok {
			o.Items = []OrderItemView{}
			views = append(views, o)
			i = len(views) - 1
			index[o.ID] = i
		}
		if productID != nil {
			views[i].Items = append(views[i].Items, OrderItemView{
				ProductID:   *productID,
				ProductName: *productName,
				Quantity:    *quantity,
				Price:       *price,
			})
		}
	}
	return views, rows.Err()
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus, actorID *uuid.UUID) (*Order, error) {
	switch status {
	case OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
	default:
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown order status: %s", status)}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var o Order
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, status, order_date, total_amount
		FROM orders WHERE id = $1
		FOR UPDATE
	`, id).Scan(&o.ID, &o.UserID, &o.Status, &o.OrderDate, &o.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	previous := o.Status

	if _, err := tx.Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	o.Status = status

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order status: %w", err)
	}

	oldVal, newVal := string(previous), string(status)
	s.audit.Log(ctx, actorID, auditActionForStatus(status), "ORDER", id.String(), &oldVal, &newVal)
	return &o, nil
}

// auditActionForStatus names the audit action for a manual status change.
// The names predate this service and are kept for report compatibility.
func auditActionForStatus(status OrderStatus) string {
	switch status {
	case OrderCancelled:
		return "ORDER_CANCEL"
	case OrderConfirmed:
		return "PO_AMENDMENT"
	default:
		return "INVOICE_UPDATE"
	}
}
