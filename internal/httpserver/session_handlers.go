package httpserver

import (
	"net/http"

	"karite-storefront/internal/delivery"
	"karite-storefront/internal/domain"
	"karite-storefront/internal/session"
	"github.com/gin-gonic/gin"
)

func createSessionHandler(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, token, err := sessions.Issue(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create session"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"sessionId":   sessionID,
			"accessToken": token,
			"tokenType":   "Bearer",
			"expiresIn":   sessions.AccessTTLSeconds(),
		})
	}
}

type deliveryOptionList struct {
	Count   int                     `json:"count"`
	Total   int                     `json:"total"`
	Results []domain.DeliveryOption `json:"results"`
}

func listDeliveryOptionsHandler(catalog *delivery.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := catalog.Options()
		c.JSON(http.StatusOK, deliveryOptionList{
			Count:   len(opts),
			Total:   len(opts),
			Results: opts,
		})
	}
}
