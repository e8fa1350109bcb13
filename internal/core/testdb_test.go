package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// testFixtures holds the ids of the base seed rows.
type testFixtures struct {
	seller   uuid.UUID
	customer uuid.UUID
	// widgetA carries a legacy flat quantity of 50 and no inventory rows,
	// modelling a product migrated from the pre-warehouse schema.
	widgetA uuid.UUID
	// widgetB has never held stock anywhere.
	widgetB uuid.UUID
}

// setupTestDB connects to the dedicated test database, applies the schema,
// truncates everything, and seeds the base fixtures.
func setupTestDB(t *testing.T) (*pgxpool.Pool, testFixtures) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE audit_logs, shipments, order_items, orders, stock_movements,
			warehouse_inventory, warehouses, cart_items, products, users CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to truncate test database: %v", err)
	}

	var f testFixtures
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ('Test Seller', 'seller@test.dev', 'x', 'SELLER')
		RETURNING id
	`).Scan(&f.seller)
	if err != nil {
		t.Fatalf("Failed to seed seller: %v", err)
	}
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ('Test Customer', 'customer@test.dev', 'x', 'CUSTOMER')
		RETURNING id
	`).Scan(&f.customer)
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}
	err = pool.QueryRow(ctx, `
		INSERT INTO products (seller_id, name, category, price, quantity)
		VALUES ($1, 'Widget A', 'Widgets', 25.00, 50)
		RETURNING id
	`, f.seller).Scan(&f.widgetA)
	if err != nil {
		t.Fatalf("Failed to seed Widget A: %v", err)
	}
	err = pool.QueryRow(ctx, `
		INSERT INTO products (seller_id, name, category, price, quantity)
		VALUES ($1, 'Widget B', 'Widgets', 100.00, NULL)
		RETURNING id
	`, f.seller).Scan(&f.widgetB)
	if err != nil {
		t.Fatalf("Failed to seed Widget B: %v", err)
	}

	return pool, f
}
