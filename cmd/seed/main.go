package main

import (
	"context"
	"log"
	"os"

	"karite-storefront/internal/config"
	"karite-storefront/internal/db"
	"karite-storefront/internal/kvstore"
	"karite-storefront/internal/seed"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.StorageDriver == "postgres" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()
	}

	kv, err := kvstore.Open(cfg.StorageDriver, cfg.StorageDir, pool)
	if err != nil {
		logger.Fatalf("open storage: %v", err)
	}

	if err := seed.Apply(ctx, kv, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied for session %q", seed.DemoSessionID)
}
