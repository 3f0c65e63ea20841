package httpserver

import (
	"net/http"

	"karite-storefront/internal/cart"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/notify"
	"github.com/gin-gonic/gin"
)

type productPayload struct {
	ID         string `json:"id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"priceCents"`
	Stock      *int   `json:"stock"`
	ImageURL   string `json:"imageUrl"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		ImageURL:   p.ImageURL,
	}
}

func (p productPayload) validate() string {
	if p.PriceCents < 0 {
		return "priceCents must not be negative"
	}
	if p.Stock != nil && *p.Stock < 0 {
		return "stock must not be negative"
	}
	return ""
}

type addLineItemRequest struct {
	Product  productPayload `json:"product" binding:"required"`
	Quantity int            `json:"quantity"`
}

type changeLineItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type setDeliveryOptionRequest struct {
	ID string `json:"id" binding:"required"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		c.JSON(http.StatusOK, buildCartView(sessionID, st, ""))
	}
}

func addLineItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		var req addLineItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid line item payload"})
			return
		}
		if msg := req.Product.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		out := st.Add(c.Request.Context(), req.Product.toDomain(), req.Quantity)
		respondOutcome(c, deps, sessionID, st, out)
	}
}

func changeLineItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		var req changeLineItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity required"})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		out := st.UpdateQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity)
		respondOutcome(c, deps, sessionID, st, out)
	}
}

func removeLineItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		out := st.Remove(c.Request.Context(), c.Param("productId"))
		respondOutcome(c, deps, sessionID, st, out)
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		out := st.Clear(c.Request.Context())
		respondOutcome(c, deps, sessionID, st, out)
	}
}

func setDeliveryOptionHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := sessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "session missing from context"})
			return
		}
		var req setDeliveryOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "delivery option id required"})
			return
		}
		opt, found := deps.Catalog.ByID(req.ID)
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown delivery option"})
			return
		}
		st := deps.Carts.Get(c.Request.Context(), sessionID)
		out := st.SetDeliveryOption(c.Request.Context(), opt)
		respondOutcome(c, deps, sessionID, st, out)
	}
}

// respondOutcome forwards the outcome to the notification sink and renders
// the mutation response. Stock rejections surface as 409 so the storefront
// can show the available quantity; everything else returns the cart view.
func respondOutcome(c *gin.Context, deps Deps, sessionID string, st *cart.Store, out domain.Outcome) {
	if deps.Sink != nil && !out.IsNone() {
		deps.Sink.Notify(out)
	}
	if out.Kind == domain.OutcomeStockInsufficient {
		c.JSON(http.StatusConflict, gin.H{
			"message":   notify.Message(out),
			"available": out.Available,
		})
		return
	}
	c.JSON(http.StatusOK, buildCartView(sessionID, st, notify.Message(out)))
}
