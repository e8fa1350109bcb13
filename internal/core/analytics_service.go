package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LowStockThreshold marks products whose total quantity is considered low on
// the dashboard.
const LowStockThreshold = 5

type Dashboard struct {
	TotalRevenue   decimal.Decimal     `json:"total_revenue"`
	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
	LowStock       []InventoryView     `json:"low_stock"`
}

type AnalyticsService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type analyticsService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

func NewAnalyticsService(pool *pgxpool.Pool, inventory InventoryService) AnalyticsService {
	return &analyticsService{pool: pool, inventory: inventory}
}

func (s *analyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: map[OrderStatus]int{},
		LowStock:       []InventoryView{},
	}

	// Cancelled orders do not count toward revenue.
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> $1
	`, OrderCancelled).Scan(&d.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	rows, err := s.pool.Query(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		d.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	all, err := s.inventory.GetAllInventory(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range all {
		if v.Quantity < LowStockThreshold {
			d.LowStock = append(d.LowStock, v)
		}
	}
	return d, nil
}
