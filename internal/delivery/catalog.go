package delivery

import "karite-storefront/internal/domain"

// Catalog is the fixed, ordered set of delivery options the storefront
// offers. It is read-only configuration: defined once at startup, no state.
type Catalog struct {
	options []domain.DeliveryOption
}

// NewCatalog builds the default catalog. The first entry is the default
// selection for new carts; pickup is always free.
func NewCatalog() *Catalog {
	return &Catalog{
		options: []domain.DeliveryOption{
			{
				ID:            "standard",
				Name:          "Standard Delivery",
				Description:   "Delivered to your door in a few days",
				PriceCents:    150000,
				EstimatedDays: 4,
				Icon:          "truck",
			},
			{
				ID:            "express",
				Name:          "Express Delivery",
				Description:   "Next-day delivery within the city",
				PriceCents:    300000,
				EstimatedDays: 1,
				Icon:          "zap",
			},
			{
				ID:            "pickup",
				Name:          "Store Pickup",
				Description:   "Pick up your order at the boutique",
				PriceCents:    0,
				EstimatedDays: 1,
				Icon:          "store",
			},
		},
	}
}

// Options returns the catalog entries in display order.
func (c *Catalog) Options() []domain.DeliveryOption {
	out := make([]domain.DeliveryOption, len(c.options))
	copy(out, c.options)
	return out
}

// ByID looks up an option by its identifier.
func (c *Catalog) ByID(id string) (domain.DeliveryOption, bool) {
	for _, opt := range c.options {
		if opt.ID == id {
			return opt, true
		}
	}
	return domain.DeliveryOption{}, false
}

// Default returns the option selected for carts with no persisted choice.
func (c *Catalog) Default() domain.DeliveryOption {
	return c.options[0]
}
