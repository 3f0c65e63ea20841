package domain

// DeliveryOption is a named shipping method drawn from a fixed catalog.
type DeliveryOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"priceCents"`
	EstimatedDays int    `json:"estimatedDays"`
	Icon          string `json:"icon,omitempty"`
}
