package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SellerID    *uuid.UUID
	Name        string
	Description string
	Category    *string
	Price       decimal.Decimal
}

type ProductService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, seller_id, name, COALESCE(description, ''), category, price, quantity, created_at, updated_at"

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Msg: "product name is required"}
	}
	if req.Price.IsNegative() {
		return nil, &ValidationError{Msg: "price must not be negative"}
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (seller_id, name, description, category, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		req.SellerID, name, req.Description, req.Category, req.Price).
		Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id).
		Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "product", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &p, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]Product, error) {
	return s.queryProducts(ctx, "SELECT "+productColumns+" FROM products ORDER BY name")
}

func (s *productService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error) {
	return s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE seller_id = $1 ORDER BY name", sellerID)
}

func (s *productService) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category,
			&p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
