package main

import (
	"context"
	"log"
	"time"

	"github.com/farm2door/farm2door/internal/config"
	"github.com/farm2door/farm2door/internal/postgres"
	"github.com/joho/godotenv"
)

// Run once at deploy time; the api and notifier assume the schema exists.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema up to date")
}
