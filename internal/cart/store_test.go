package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"karite-storefront/internal/delivery"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/kvstore"
)

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemory()
	mgr := NewManager(kv, delivery.NewCatalog(), nil)
	return mgr.Get(context.Background(), "s1"), kv
}

func intPtr(v int) *int {
	return &v
}

func soap() domain.Product {
	return domain.Product{ID: "7", Name: "Savon au Karité", PriceCents: 300000}
}

func TestAddCreatesLine(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	out := st.Add(ctx, soap(), 2)
	if out.Kind != domain.OutcomeAdded || out.ProductName != "Savon au Karité" || out.Quantity != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	lines := st.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if st.SubtotalCents() != 600000 {
		t.Fatalf("unexpected subtotal %d", st.SubtotalCents())
	}
}

func TestAddAccumulatesIntoSingleLine(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, soap(), 2)
	out := st.Add(ctx, soap(), 3)
	if out.Kind != domain.OutcomeAdded {
		t.Fatalf("unexpected outcome %+v", out)
	}
	lines := st.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one line per product id, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	if st.SubtotalCents() != 1500000 {
		t.Fatalf("unexpected subtotal %d", st.SubtotalCents())
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	out := st.Add(ctx, soap(), 0)
	if out.Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %+v", out)
	}
	if st.TotalItemCount() != 1 {
		t.Fatalf("unexpected item count %d", st.TotalItemCount())
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 100}, 1)
	st.Add(ctx, domain.Product{ID: "2", Name: "B", PriceCents: 200}, 1)
	st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 100}, 1)
	st.Add(ctx, domain.Product{ID: "3", Name: "C", PriceCents: 300}, 1)

	lines := st.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []string{"1", "2", "3"} {
		if lines[i].Product.ID != want {
			t.Fatalf("unexpected order: %+v", lines)
		}
	}
}

func TestAddRejectedWhenStockExceeded(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	limited := domain.Product{ID: "9", Name: "Beurre de Karité", PriceCents: 500000, Stock: intPtr(3)}

	st.Add(ctx, limited, 3)
	out := st.Add(ctx, limited, 1)
	if out.Kind != domain.OutcomeStockInsufficient {
		t.Fatalf("expected stock rejection, got %+v", out)
	}
	if out.Available != 3 || out.ProductName != "Beurre de Karité" {
		t.Fatalf("rejection should name product and available stock: %+v", out)
	}
	if got := st.Lines()[0].Quantity; got != 3 {
		t.Fatalf("state changed on rejected add: quantity %d", got)
	}
}

func TestStockNeverExceededBySequence(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	limited := domain.Product{ID: "9", Name: "Limited", PriceCents: 100, Stock: intPtr(4)}

	st.Add(ctx, limited, 2)
	st.Add(ctx, limited, 2)
	st.Add(ctx, limited, 1)
	st.UpdateQuantity(ctx, "9", 10)
	st.Add(ctx, limited, 3)

	if got := st.Lines()[0].Quantity; got > 4 {
		t.Fatalf("stock invariant violated: quantity %d > 4", got)
	}
}

func TestAddThenRemoveLeavesNoLine(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, soap(), 5)
	out := st.Remove(ctx, "7")
	if out.Kind != domain.OutcomeRemoved || out.ProductName != "Savon au Karité" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(st.Lines()) != 0 {
		t.Fatalf("expected empty cart, got %+v", st.Lines())
	}
}

func TestRemoveMissingLineIsSilent(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	out := st.Remove(ctx, "nope")
	if !out.IsNone() {
		t.Fatalf("expected silent no-op, got %+v", out)
	}
}

func TestUpdateQuantityReplaces(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, soap(), 2)
	out := st.UpdateQuantity(ctx, "7", 5)
	if out.Kind != domain.OutcomeQuantityUpdated || out.Quantity != 5 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := st.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity replaced with 5, got %d", got)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 100}, 2)
	st.Add(ctx, domain.Product{ID: "2", Name: "B", PriceCents: 200}, 3)

	out := st.UpdateQuantity(ctx, "1", 0)
	if out.Kind != domain.OutcomeRemoved {
		t.Fatalf("expected removal outcome, got %+v", out)
	}
	lines := st.Lines()
	if len(lines) != 1 || lines[0].Product.ID != "2" {
		t.Fatalf("other line affected: %+v", lines)
	}
	if st.TotalItemCount() != 3 {
		t.Fatalf("item count should reflect remaining line, got %d", st.TotalItemCount())
	}
}

func TestUpdateQuantityMissingLineIsSilent(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	if out := st.UpdateQuantity(ctx, "nope", 3); !out.IsNone() {
		t.Fatalf("expected silent no-op, got %+v", out)
	}
}

func TestUpdateQuantityRejectedWhenStockExceeded(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	limited := domain.Product{ID: "9", Name: "Limited", PriceCents: 100, Stock: intPtr(3)}

	st.Add(ctx, limited, 2)
	out := st.UpdateQuantity(ctx, "9", 4)
	if out.Kind != domain.OutcomeStockInsufficient || out.Available != 3 {
		t.Fatalf("expected stock rejection, got %+v", out)
	}
	if got := st.Lines()[0].Quantity; got != 2 {
		t.Fatalf("state changed on rejected update: quantity %d", got)
	}
}

func TestTotalsIdentity(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 300000}, 2)
	st.Add(ctx, domain.Product{ID: "2", Name: "B", PriceCents: 450000}, 1)

	if st.TotalItemCount() != 3 {
		t.Fatalf("unexpected item count %d", st.TotalItemCount())
	}
	if st.SubtotalCents() != 1050000 {
		t.Fatalf("unexpected subtotal %d", st.SubtotalCents())
	}
	want := st.SubtotalCents() + st.SelectedDeliveryOption().PriceCents
	if st.TotalCents() != want {
		t.Fatalf("total %d != subtotal + delivery %d", st.TotalCents(), want)
	}
}

func TestPickupMakesTotalEqualSubtotal(t *testing.T) {
	ctx := context.Background()
	catalog := delivery.NewCatalog()
	mgr := NewManager(kvstore.NewMemory(), catalog, nil)
	st := mgr.Get(ctx, "s1")

	st.Add(ctx, soap(), 2)
	pickup, ok := catalog.ByID("pickup")
	if !ok {
		t.Fatalf("pickup option missing")
	}
	out := st.SetDeliveryOption(ctx, pickup)
	if out.Kind != domain.OutcomeDeliverySelected || out.OptionName != pickup.Name || out.PriceCents != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if st.TotalCents() != st.SubtotalCents() {
		t.Fatalf("total %d should equal subtotal %d with free pickup", st.TotalCents(), st.SubtotalCents())
	}
}

func TestClearIsIdempotentAndSilentSecondTime(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)

	st.Add(ctx, soap(), 2)
	st.Add(ctx, domain.Product{ID: "8", Name: "B", PriceCents: 100}, 2)

	first := st.Clear(ctx)
	if first.Kind != domain.OutcomeCleared || first.Count != 4 {
		t.Fatalf("unexpected first clear outcome %+v", first)
	}
	if len(st.Lines()) != 0 {
		t.Fatalf("cart not empty after clear")
	}

	second := st.Clear(ctx)
	if !second.IsNone() {
		t.Fatalf("second clear should be silent, got %+v", second)
	}
}

func TestCanAdd(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	limited := domain.Product{ID: "9", Name: "Limited", PriceCents: 100, Stock: intPtr(3)}

	// Optimistic for unknown products: stock cannot be known yet.
	if !st.CanAdd("9", 100) {
		t.Fatalf("CanAdd should be optimistic for products not in the cart")
	}

	st.Add(ctx, limited, 2)
	if !st.CanAdd("9", 1) {
		t.Fatalf("expected CanAdd true within stock")
	}
	if st.CanAdd("9", 2) {
		t.Fatalf("expected CanAdd false beyond stock")
	}

	st.Add(ctx, soap(), 1)
	if !st.CanAdd("7", 1000) {
		t.Fatalf("expected CanAdd true for unlimited product")
	}
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	catalog := delivery.NewCatalog()

	mgr := NewManager(kv, catalog, nil)
	st := mgr.Get(ctx, "s1")
	st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 300000}, 2)
	st.Add(ctx, domain.Product{ID: "2", Name: "B", PriceCents: 450000, Stock: intPtr(5)}, 1)
	express, _ := catalog.ByID("express")
	st.SetDeliveryOption(ctx, express)

	// Fresh manager over the same storage simulates an application restart.
	reloaded := NewManager(kv, catalog, nil).Get(ctx, "s1")
	lines := reloaded.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after reload, got %d", len(lines))
	}
	if lines[0].Product.ID != "1" || lines[0].Quantity != 2 {
		t.Fatalf("first line mismatch: %+v", lines[0])
	}
	if lines[1].Product.ID != "2" || lines[1].Quantity != 1 {
		t.Fatalf("second line mismatch: %+v", lines[1])
	}
	if lines[1].Product.Stock == nil || *lines[1].Product.Stock != 5 {
		t.Fatalf("stock not preserved: %+v", lines[1].Product)
	}
	if reloaded.SelectedDeliveryOption().ID != "express" {
		t.Fatalf("delivery selection not preserved: %+v", reloaded.SelectedDeliveryOption())
	}
}

func TestCorruptLinesResetAndClearKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	catalog := delivery.NewCatalog()
	if err := kv.Set(ctx, LinesKey("s1"), []byte(`{"not":"an array"`)); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	st := NewManager(kv, catalog, nil).Get(ctx, "s1")
	if len(st.Lines()) != 0 {
		t.Fatalf("expected empty cart after corrupt load, got %+v", st.Lines())
	}
	if _, err := kv.Get(ctx, LinesKey("s1")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("corrupt key should have been cleared, got %v", err)
	}
}

func TestStructurallyInvalidLinesAreDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	// Parses as JSON but violates the line invariants (quantity < 1).
	if err := kv.Set(ctx, LinesKey("s1"), []byte(`[{"product":{"id":"1","name":"A","priceCents":100},"quantity":0}]`)); err != nil {
		t.Fatalf("seed invalid value: %v", err)
	}

	st := NewManager(kv, delivery.NewCatalog(), nil).Get(ctx, "s1")
	if len(st.Lines()) != 0 {
		t.Fatalf("invalid lines should be discarded, got %+v", st.Lines())
	}
	if _, err := kv.Get(ctx, LinesKey("s1")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("invalid key should have been cleared, got %v", err)
	}
}

func TestNegativePersistedStockIsDiscarded(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	// A tampered negative stock would reject every future add for the
	// product, so it counts as corrupt data.
	if err := kv.Set(ctx, LinesKey("s1"), []byte(`[{"product":{"id":"1","name":"A","priceCents":100,"stock":-1},"quantity":1}]`)); err != nil {
		t.Fatalf("seed invalid value: %v", err)
	}

	st := NewManager(kv, delivery.NewCatalog(), nil).Get(ctx, "s1")
	if len(st.Lines()) != 0 {
		t.Fatalf("negative stock lines should be discarded, got %+v", st.Lines())
	}
	if _, err := kv.Get(ctx, LinesKey("s1")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("invalid key should have been cleared, got %v", err)
	}

	out := st.Add(ctx, domain.Product{ID: "1", Name: "A", PriceCents: 100}, 1)
	if out.Kind != domain.OutcomeAdded {
		t.Fatalf("expected add to succeed after reset, got %+v", out)
	}
}

func TestUnknownPersistedDeliveryFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	catalog := delivery.NewCatalog()
	if err := kv.Set(ctx, DeliveryKey("s1"), []byte(`{"id":"discontinued"}`)); err != nil {
		t.Fatalf("seed delivery value: %v", err)
	}

	st := NewManager(kv, catalog, nil).Get(ctx, "s1")
	if st.SelectedDeliveryOption().ID != catalog.Default().ID {
		t.Fatalf("expected fallback to default, got %+v", st.SelectedDeliveryOption())
	}
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage down")
}

func (failingKV) Set(context.Context, string, []byte) error {
	return errors.New("storage down")
}

func (failingKV) Delete(context.Context, string) error {
	return errors.New("storage down")
}

func TestPersistenceFailureDoesNotBreakMutations(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	st := NewManager(failingKV{}, delivery.NewCatalog(), logger).Get(ctx, "s1")

	out := st.Add(ctx, soap(), 2)
	if out.Kind != domain.OutcomeAdded {
		t.Fatalf("mutation should succeed despite storage failure, got %+v", out)
	}
	if st.TotalItemCount() != 2 {
		t.Fatalf("in-memory state should stay authoritative, got count %d", st.TotalItemCount())
	}
}
