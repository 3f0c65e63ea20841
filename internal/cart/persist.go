package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"karite-storefront/internal/domain"
)

// LinesKey is the storage key holding a session's cart lines as a JSON
// array of {product, quantity} objects.
func LinesKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:lines", sessionID)
}

// DeliveryKey is the storage key holding a session's delivery selection
// as a JSON {id} object.
func DeliveryKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:delivery", sessionID)
}

type persistedDelivery struct {
	ID string `json:"id"`
}

// persist writes the current state to storage. Failures are logged and
// swallowed: the in-memory state stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.logger.Printf("cart store: session=%s marshal lines: %v", s.sessionID, err)
	} else if err := s.kv.Set(ctx, LinesKey(s.sessionID), raw); err != nil {
		s.logger.Printf("cart store: session=%s persist lines: %v", s.sessionID, err)
	}

	raw, err = json.Marshal(persistedDelivery{ID: s.selected.ID})
	if err != nil {
		s.logger.Printf("cart store: session=%s marshal delivery: %v", s.sessionID, err)
	} else if err := s.kv.Set(ctx, DeliveryKey(s.sessionID), raw); err != nil {
		s.logger.Printf("cart store: session=%s persist delivery: %v", s.sessionID, err)
	}
}

// load rehydrates the store from storage. Malformed data counts as no
// data: the state resets to empty and the corrupted key is deleted so it
// cannot repeatedly fail to parse. A persisted delivery id that no longer
// matches the catalog falls back to the default option.
func (s *Store) load(ctx context.Context) {
	raw, err := s.kv.Get(ctx, LinesKey(s.sessionID))
	switch {
	case err == nil:
		lines, perr := decodeLines(raw)
		if perr != nil {
			s.logger.Printf("cart store: session=%s discarding corrupt lines: %v", s.sessionID, perr)
			if derr := s.kv.Delete(ctx, LinesKey(s.sessionID)); derr != nil {
				s.logger.Printf("cart store: session=%s clear corrupt lines key: %v", s.sessionID, derr)
			}
		} else {
			s.lines = lines
		}
	case errors.Is(err, domain.ErrNotFound):
		// fresh session
	default:
		s.logger.Printf("cart store: session=%s read lines: %v", s.sessionID, err)
	}

	raw, err = s.kv.Get(ctx, DeliveryKey(s.sessionID))
	switch {
	case err == nil:
		var pd persistedDelivery
		if uerr := json.Unmarshal(raw, &pd); uerr != nil {
			s.logger.Printf("cart store: session=%s discarding corrupt delivery: %v", s.sessionID, uerr)
			if derr := s.kv.Delete(ctx, DeliveryKey(s.sessionID)); derr != nil {
				s.logger.Printf("cart store: session=%s clear corrupt delivery key: %v", s.sessionID, derr)
			}
		} else if opt, ok := s.catalog.ByID(pd.ID); ok {
			s.selected = opt
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		s.logger.Printf("cart store: session=%s read delivery: %v", s.sessionID, err)
	}
}

func decodeLines(raw []byte) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if l.Product.ID == "" {
			return nil, fmt.Errorf("line %d: missing product id", i)
		}
		if l.Quantity < 1 {
			return nil, fmt.Errorf("line %d: invalid quantity %d", i, l.Quantity)
		}
		if l.Product.PriceCents < 0 {
			return nil, fmt.Errorf("line %d: negative price", i)
		}
		if l.Product.Stock != nil && *l.Product.Stock < 0 {
			return nil, fmt.Errorf("line %d: negative stock", i)
		}
		if _, dup := seen[l.Product.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate product id %q", i, l.Product.ID)
		}
		seen[l.Product.ID] = struct{}{}
	}
	return lines, nil
}
