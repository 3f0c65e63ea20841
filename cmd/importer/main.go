package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"karite-storefront/internal/config"
	"karite-storefront/internal/db"
	"karite-storefront/internal/importer"
	"karite-storefront/internal/kvstore"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	var (
		filePath  string
		sessionID string
	)
	flag.StringVar(&filePath, "file", "", "Path to a browser localStorage JSON export")
	flag.StringVar(&sessionID, "session", "", "Session id to import the cart into")
	flag.Parse()

	if filePath == "" || sessionID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.StorageDriver == "postgres" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			log.Fatalf("connect db: %v", err)
		}
		defer pool.Close()
	}

	kv, err := kvstore.Open(cfg.StorageDriver, cfg.StorageDir, pool)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewDumpImporter(f, kv, sessionID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d cart lines into session %s in %s\n", count, sessionID, time.Since(start).Truncate(time.Millisecond))
}
