package domain

// Product is the slice of the remote catalog entity the cart needs. The
// storefront supplies it with each mutation; this service does not own
// product persistence.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	// Stock is the known available quantity. nil means availability is
	// unlimited (or unknown) and stock checks are skipped.
	Stock    *int   `json:"stock,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}
