package seed

import (
	"context"
	"fmt"
	"log"

	"karite-storefront/internal/cart"
	"karite-storefront/internal/delivery"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/kvstore"
)

// DemoSessionID is the well-known session seeded for manual testing.
const DemoSessionID = "demo"

// Apply writes a demo cart into storage. It is idempotent: the demo
// session's keys are rewritten on every run.
func Apply(ctx context.Context, kv kvstore.Store, logger *log.Logger) error {
	catalog := delivery.NewCatalog()
	mgr := cart.NewManager(kv, catalog, logger)
	st := mgr.Get(ctx, DemoSessionID)
	st.Clear(ctx)

	stock := 10
	products := []struct {
		product  domain.Product
		quantity int
	}{
		{
			product:  domain.Product{ID: "demo-savon-karite", Name: "Savon au Karité", PriceCents: 300000, Stock: &stock},
			quantity: 2,
		},
		{
			product:  domain.Product{ID: "demo-beurre-karite", Name: "Beurre de Karité Pur", PriceCents: 450000},
			quantity: 1,
		},
	}
	for _, p := range products {
		out := st.Add(ctx, p.product, p.quantity)
		if out.Kind == domain.OutcomeStockInsufficient {
			return fmt.Errorf("seed product %s rejected: only %d in stock", p.product.ID, out.Available)
		}
	}

	express, ok := catalog.ByID("express")
	if !ok {
		return fmt.Errorf("express delivery option missing from catalog")
	}
	st.SetDeliveryOption(ctx, express)
	return nil
}
