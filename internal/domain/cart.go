package domain

// CartLine is one row in a cart: a product and how many units of it.
// A cart holds at most one line per product id, and Quantity is always >= 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// TotalCents is the line total (unit price times quantity).
func (l CartLine) TotalCents() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}
