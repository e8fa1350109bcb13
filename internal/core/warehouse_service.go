package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateWarehouseRequest carries the fields for a new warehouse. Active
// defaults to true when nil.
type CreateWarehouseRequest struct {
	Name     string
	Location string
	Capacity *int
	Active   *bool
}

// UpdateWarehouseRequest carries a partial update; nil fields are unchanged.
type UpdateWarehouseRequest struct {
	Name     *string
	Location *string
	Capacity *int
	Active   *bool
}

type WarehouseService interface {
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*Warehouse, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error
}

type warehouseService struct {
	pool *pgxpool.Pool
}

func NewWarehouseService(pool *pgxpool.Pool) WarehouseService {
	return &warehouseService{pool: pool}
}

func (s *warehouseService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*Warehouse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Msg: "warehouse name is required"}
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var w Warehouse
	err := s.pool.QueryRow(ctx, `
		INSERT INTO warehouses (name, location, capacity, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
	`, name, req.Location, req.Capacity, active).
		Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}
	return &w, nil
}

func (s *warehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	var w Warehouse
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
		FROM warehouses WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "warehouse", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch warehouse: %w", err)
	}
	return &w, nil
}

func (s *warehouseService) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
		FROM warehouses
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []Warehouse{}
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *warehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*Warehouse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var w Warehouse
	err = tx.QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), capacity, active, created_at, updated_at
		FROM warehouses WHERE id = $1
		FOR UPDATE
	`, id).Scan(&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "warehouse", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch warehouse: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Msg: "warehouse name is required"}
		}
		w.Name = name
	}
	if req.Location != nil {
		w.Location = *req.Location
	}
	if req.Capacity != nil {
		w.Capacity = req.Capacity
	}
	if req.Active != nil {
		w.Active = *req.Active
	}

	err = tx.QueryRow(ctx, `
		UPDATE warehouses
		SET name = $1, location = $2, capacity = $3, active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, w.Name, w.Location, w.Capacity, w.Active, w.ID).Scan(&w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit warehouse update: %w", err)
	}
	return &w, nil
}

func (s *warehouseService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	var stocked bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM warehouse_inventory WHERE warehouse_id = $1 AND quantity > 0)
	`, id).Scan(&stocked)
	if err != nil {
		return fmt.Errorf("failed to check warehouse stock: %w", err)
	}
	if stocked {
		return &ValidationError{Msg: "warehouse still holds stock"}
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM warehouses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "warehouse", ID: id.String()}
	}
	return nil
}
