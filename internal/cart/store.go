// Package cart owns the session-scoped shopping cart: its lines, the
// selected delivery option, derived totals, and persistence to the
// key/value store. All state changes go through the mutation methods,
// which report domain.Outcome values instead of errors for expected
// conditions such as insufficient stock.
package cart

import (
	"context"
	"log"
	"sync"

	"karite-storefront/internal/delivery"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/kvstore"
)

// Store holds the cart state for one session. Obtain instances through
// Manager.Get so the persisted state is always loaded before the first
// mutation.
type Store struct {
	mu        sync.Mutex
	sessionID string
	lines     []domain.CartLine
	selected  domain.DeliveryOption
	catalog   *delivery.Catalog
	kv        kvstore.Store
	logger    *log.Logger
}

func newStore(sessionID string, kv kvstore.Store, catalog *delivery.Catalog, logger *log.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		selected:  catalog.Default(),
		catalog:   catalog,
		kv:        kv,
		logger:    logger,
	}
}

// Add puts quantity units of the product in the cart, merging into an
// existing line for the same product id. Quantities below 1 count as 1.
// If the product carries a stock figure and the prospective line quantity
// would exceed it, nothing changes and a stockInsufficient outcome is
// returned.
func (s *Store) Add(ctx context.Context, p domain.Product, quantity int) domain.Outcome {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := 0
	idx := s.indexOf(p.ID)
	if idx >= 0 {
		current = s.lines[idx].Quantity
	}
	if p.Stock != nil && current+quantity > *p.Stock {
		return domain.Outcome{Kind: domain.OutcomeStockInsufficient, ProductName: p.Name, Available: *p.Stock}
	}

	if idx >= 0 {
		s.lines[idx].Quantity = current + quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{Product: p, Quantity: quantity})
	}
	s.persist(ctx)
	return domain.Outcome{Kind: domain.OutcomeAdded, ProductName: p.Name, Quantity: quantity}
}

// Remove drops the whole line for productID regardless of its quantity.
// Removing a line that does not exist is a silent no-op.
func (s *Store) Remove(ctx context.Context, productID string) domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID string) domain.Outcome {
	idx := s.indexOf(productID)
	if idx < 0 {
		return domain.Outcome{}
	}
	name := s.lines[idx].Product.Name
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.persist(ctx)
	return domain.Outcome{Kind: domain.OutcomeRemoved, ProductName: name}
}

// UpdateQuantity replaces (not increments) the line quantity. A quantity
// of zero or less removes the line. Updating a missing line is a silent
// no-op; exceeding known stock rejects the change.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, productID)
	}
	idx := s.indexOf(productID)
	if idx < 0 {
		return domain.Outcome{}
	}
	line := &s.lines[idx]
	if line.Product.Stock != nil && quantity > *line.Product.Stock {
		return domain.Outcome{Kind: domain.OutcomeStockInsufficient, ProductName: line.Product.Name, Available: *line.Product.Stock}
	}
	line.Quantity = quantity
	s.persist(ctx)
	return domain.Outcome{Kind: domain.OutcomeQuantityUpdated, ProductName: line.Product.Name, Quantity: quantity}
}

// Clear empties the cart. Clearing an already-empty cart is a silent
// no-op and must not report a cleared outcome again.
func (s *Store) Clear(ctx context.Context) domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 {
		return domain.Outcome{}
	}
	count := s.itemCountLocked()
	s.lines = nil
	s.persist(ctx)
	return domain.Outcome{Kind: domain.OutcomeCleared, Count: count}
}

// SetDeliveryOption replaces the selected option unconditionally. Callers
// that only hold an id should resolve it against the catalog first.
func (s *Store) SetDeliveryOption(ctx context.Context, opt domain.DeliveryOption) domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = opt
	s.persist(ctx)
	return domain.Outcome{Kind: domain.OutcomeDeliverySelected, OptionName: opt.Name, PriceCents: opt.PriceCents}
}

// CanAdd reports whether adding quantity units of the product would pass
// the stock check. For products not yet in the cart it is optimistic and
// returns true: remote stock is unknown until a product payload arrives
// with the mutation itself.
func (s *Store) CanAdd(productID string, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return true
	}
	line := s.lines[idx]
	if line.Product.Stock == nil {
		return true
	}
	return line.Quantity+quantity <= *line.Product.Stock
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// SelectedDeliveryOption returns the current delivery choice.
func (s *Store) SelectedDeliveryOption() domain.DeliveryOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// TotalItemCount is the sum of quantities over all lines.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked()
}

// SubtotalCents is the sum of price times quantity over all lines.
func (s *Store) SubtotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

// TotalCents is the subtotal plus the selected delivery option's price.
func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked() + s.selected.PriceCents
}

func (s *Store) itemCountLocked() int {
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

func (s *Store) subtotalLocked() int64 {
	var sum int64
	for _, l := range s.lines {
		sum += l.TotalCents()
	}
	return sum
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
