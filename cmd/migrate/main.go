package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"omnicart-backend/internal/db"
)

func main() {
	_ = godotenv.Load()

	path := "migrations/001_init.sql"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	ctx := context.Background()
	pool, err := db.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(ctx, pool, path); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("applied %s", path)
}
