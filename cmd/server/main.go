package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	webAdapter "omnicart-backend/internal/adapters/web"
	"omnicart-backend/internal/app"
	"omnicart-backend/internal/core"
	"omnicart-backend/internal/db"
	"omnicart-backend/internal/events"
	"omnicart-backend/internal/notify"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
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

	var publisher events.Publisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher = events.NewKafkaPublisher(strings.Split(brokers, ","), os.Getenv("KAFKA_ORDERS_TOPIC"))
	} else {
		publisher = events.NewLogPublisher(logger)
	}
	defer publisher.Close()

	mailer := notify.NewLogMailer(logger)
	ledger := core.NewStockLedger(pool)
	audit := core.NewAuditService(pool, logger)
	inventory := core.NewInventoryService(pool, ledger)

	svc := app.NewApplicationService(app.Services{
		Users:      core.NewUserService(pool),
		Products:   core.NewProductService(pool),
		Inventory:  inventory,
		Warehouses: core.NewWarehouseService(pool),
		Orders:     core.NewOrderService(pool, inventory, audit, publisher, mailer, logger),
		Shipments:  core.NewShipmentService(pool),
		Analytics:  core.NewAnalyticsService(pool, inventory),
		Audit:      audit,
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
