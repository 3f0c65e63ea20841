package httpserver

import (
	"karite-storefront/internal/cart"
	"karite-storefront/internal/domain"
)

type cartViewLine struct {
	Product    domain.Product `json:"product"`
	Quantity   int            `json:"quantity"`
	TotalCents int64          `json:"totalCents"`
}

type cartView struct {
	SessionID      string                `json:"sessionId"`
	LineItems      []cartViewLine        `json:"lineItems"`
	TotalItemCount int                   `json:"totalItemCount"`
	SubtotalCents  int64                 `json:"subtotalCents"`
	DeliveryOption domain.DeliveryOption `json:"deliveryOption"`
	TotalCents     int64                 `json:"totalCents"`
	Notification   string                `json:"notification,omitempty"`
}

func buildCartView(sessionID string, st *cart.Store, notification string) cartView {
	lines := st.Lines()
	items := make([]cartViewLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartViewLine{
			Product:    l.Product,
			Quantity:   l.Quantity,
			TotalCents: l.TotalCents(),
		})
	}
	return cartView{
		SessionID:      sessionID,
		LineItems:      items,
		TotalItemCount: st.TotalItemCount(),
		SubtotalCents:  st.SubtotalCents(),
		DeliveryOption: st.SelectedDeliveryOption(),
		TotalCents:     st.TotalCents(),
		Notification:   notification,
	}
}
