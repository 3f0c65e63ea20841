package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"karite-storefront/internal/cart"
	"karite-storefront/internal/config"
	"karite-storefront/internal/db"
	"karite-storefront/internal/delivery"
	"karite-storefront/internal/httpserver"
	"karite-storefront/internal/kvstore"
	"karite-storefront/internal/notify"
	"karite-storefront/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.StorageDriver == "postgres" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
	}

	kv, err := kvstore.Open(cfg.StorageDriver, cfg.StorageDir, pool)
	if err != nil {
		logger.Fatalf("open storage: %v", err)
	}

	catalog := delivery.NewCatalog()
	carts := cart.NewManager(kv, catalog, logger)
	sessions := session.New()
	sink := notify.NewLogSink(logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Carts:    carts,
		Sessions: sessions,
		Catalog:  catalog,
		Sink:     sink,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (storage driver %s)", cfg.HTTPAddr, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
