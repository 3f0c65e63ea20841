// Package importer converts browser localStorage exports from the legacy
// storefront into the cart state this service persists.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"karite-storefront/internal/cart"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/kvstore"
)

// Legacy localStorage keys written by the old storefront.
const (
	legacyCartKey     = "cart"
	legacyDeliveryKey = "selectedDelivery"
)

// DumpImporter reads a localStorage export (a JSON object whose values are
// the stringified entries) and writes the cart keys for one session.
type DumpImporter struct {
	reader    io.Reader
	kv        kvstore.Store
	sessionID string
}

func NewDumpImporter(r io.Reader, kv kvstore.Store, sessionID string) *DumpImporter {
	return &DumpImporter{
		reader:    r,
		kv:        kv,
		sessionID: sessionID,
	}
}

type legacyLine struct {
	Product  legacyProduct `json:"product"`
	Quantity int           `json:"quantity"`
}

type legacyProduct struct {
	// The old storefront used numeric ids for products and string ids for
	// promotions, so accept either.
	ID legacyID `json:"id"`
	// Prices were stored in whole currency units.
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Stock    *int     `json:"stock"`
	ImageURL string   `json:"imageUrl"`
	Images   []string `json:"images"`
}

// legacyID decodes a JSON string or number into its textual form.
type legacyID string

func (id *legacyID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*id = legacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("product id must be a string or number, got %s", raw)
	}
	*id = legacyID(n.String())
	return nil
}

// Run parses the dump and imports the cart lines and delivery selection.
// It returns the number of imported lines. The whole dump is validated
// before anything is written, so a malformed entry leaves storage
// untouched.
func (i *DumpImporter) Run(ctx context.Context) (int, error) {
	var dump map[string]string
	if err := json.NewDecoder(i.reader).Decode(&dump); err != nil {
		return 0, fmt.Errorf("decode dump: %w", err)
	}

	rawLines, ok := dump[legacyCartKey]
	if !ok {
		return 0, fmt.Errorf("dump has no %q entry", legacyCartKey)
	}
	var legacy []legacyLine
	if err := json.Unmarshal([]byte(rawLines), &legacy); err != nil {
		return 0, fmt.Errorf("parse legacy cart: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(legacy))
	seen := make(map[string]struct{}, len(legacy))
	for idx, l := range legacy {
		id := string(l.Product.ID)
		if id == "" {
			return 0, fmt.Errorf("line %d: missing product id", idx)
		}
		if l.Quantity < 1 {
			return 0, fmt.Errorf("line %d: invalid quantity %d", idx, l.Quantity)
		}
		if l.Product.Price < 0 {
			return 0, fmt.Errorf("line %d: negative price", idx)
		}
		if l.Product.Stock != nil && *l.Product.Stock < 0 {
			return 0, fmt.Errorf("line %d: negative stock", idx)
		}
		if _, dup := seen[id]; dup {
			return 0, fmt.Errorf("line %d: duplicate product id %q", idx, id)
		}
		seen[id] = struct{}{}

		imageURL := l.Product.ImageURL
		if imageURL == "" && len(l.Product.Images) > 0 {
			imageURL = l.Product.Images[0]
		}
		lines = append(lines, domain.CartLine{
			Product: domain.Product{
				ID:         id,
				Name:       l.Product.Name,
				PriceCents: int64(math.Round(l.Product.Price * 100)),
				Stock:      l.Product.Stock,
				ImageURL:   imageURL,
			},
			Quantity: l.Quantity,
		})
	}

	var deliveryRaw []byte
	if rawDelivery, ok := dump[legacyDeliveryKey]; ok {
		var selection struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(rawDelivery), &selection); err != nil {
			return 0, fmt.Errorf("parse legacy delivery selection: %w", err)
		}
		var err error
		deliveryRaw, err = json.Marshal(selection)
		if err != nil {
			return 0, fmt.Errorf("marshal delivery selection: %w", err)
		}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return 0, fmt.Errorf("marshal lines: %w", err)
	}
	if err := i.kv.Set(ctx, cart.LinesKey(i.sessionID), raw); err != nil {
		return 0, fmt.Errorf("write lines: %w", err)
	}
	if deliveryRaw != nil {
		if err := i.kv.Set(ctx, cart.DeliveryKey(i.sessionID), deliveryRaw); err != nil {
			return len(lines), fmt.Errorf("write delivery selection: %w", err)
		}
	}

	return len(lines), nil
}
