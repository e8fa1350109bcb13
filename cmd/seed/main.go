// Command seed loads a small demo dataset: one admin, one seller, one
// customer, a handful of products, and a stocked warehouse. Intended for
// local development; re-running it adds nothing on conflict.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omnicart-backend/internal/core"
	"omnicart-backend/internal/db"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool, "migrations/001_init.sql"); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := core.NewUserService(pool)
	products := core.NewProductService(pool)
	ledger := core.NewStockLedger(pool)
	inventory := core.NewInventoryService(pool, ledger)

	seller := mustUser(ctx, users, "Demo Seller", "seller@omnicart.dev", core.RoleSeller)
	mustUser(ctx, users, "Demo Admin", "admin@omnicart.dev", core.RoleAdmin)
	mustUser(ctx, users, "Demo Customer", "customer@omnicart.dev", core.RoleCustomer)

	electronics := "Electronics"
	books := "Books"
	catalog := []struct {
		name     string
		category *string
		price    string
		stock    int
	}{
		{"Wireless Mouse", &electronics, "29.99", 120},
		{"Mechanical Keyboard", &electronics, "89.50", 45},
		{"USB-C Hub", &electronics, "39.00", 80},
		{"Go in Practice", &books, "44.95", 30},
	}

	for _, item := range catalog {
		p, err := products.CreateProduct(ctx, core.CreateProductRequest{
			SellerID: &seller.ID,
			Name:     item.name,
			Category: item.category,
			Price:    decimal.RequireFromString(item.price),
		})
		if err != nil {
			log.Fatalf("product %s: %v", item.name, err)
		}
		err = inventory.AdjustInventory(ctx, core.AdjustRequest{
			ProductID:     p.ID,
			QuantityDelta: item.stock,
			Type:          core.MovementInbound,
			Reason:        "Initial stock",
		})
		if err != nil {
			log.Fatalf("stock %s: %v", item.name, err)
		}
		logger.Info("seeded product", zap.String("name", item.name), zap.Int("stock", item.stock))
	}

	log.Println("seed complete")
}

func mustUser(ctx context.Context, users core.UserService, name, email string, role core.Role) *core.User {
	u, err := users.CreateUser(ctx, core.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err == nil {
		return u
	}
	// Probably a re-run against an already seeded database.
	u, lookupErr := users.GetUserByEmail(ctx, email)
	if lookupErr != nil {
		log.Fatalf("user %s: %v", email, err)
	}
	return u
}
