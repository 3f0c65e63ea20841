package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"karite-storefront/internal/cart"
	"karite-storefront/internal/delivery"
	"karite-storefront/internal/notify"
	"karite-storefront/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the router exposes.
type Deps struct {
	Carts    *cart.Manager
	Sessions *session.Service
	Catalog  *delivery.Catalog
	Sink     notify.Sink
}

type ctxKey string

const sessionCtxKey ctxKey = "sessionID"

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Carts == nil || deps.Sessions == nil || deps.Catalog == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sessions", createSessionHandler(deps.Sessions))
	router.GET("/delivery-options", listDeliveryOptionsHandler(deps.Catalog))

	me := router.Group("/me", sessionMiddleware(deps.Sessions))
	me.GET("/cart", getCartHandler(deps))
	me.POST("/cart/line-items", addLineItemHandler(deps))
	me.PATCH("/cart/line-items/:productId", changeLineItemHandler(deps))
	me.DELETE("/cart/line-items/:productId", removeLineItemHandler(deps))
	me.DELETE("/cart/line-items", clearCartHandler(deps))
	me.PUT("/cart/delivery-option", setDeliveryOptionHandler(deps))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// sessionMiddleware resolves the bearer token to a session id and stashes
// it in the request context.
func sessionMiddleware(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		sessionID, err := sessions.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sessionID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func sessionFromContext(c *gin.Context) (string, bool) {
	v := c.Request.Context().Value(sessionCtxKey)
	sessionID, ok := v.(string)
	return sessionID, ok && sessionID != ""
}
