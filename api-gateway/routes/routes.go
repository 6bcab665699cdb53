package routes

import (
	"strings"
	"time"

	"github.com/shopswift/marketplace/api-gateway/proxy"
	apperrors "github.com/shopswift/marketplace/services/common/errors"

	"github.com/gin-gonic/gin"
)

// Upstreams holds the base URL of each service behind the gateway.
type Upstreams struct {
	User    string
	Product string
	Order   string
	Payment string
}

// RegisterAllRoutes mounts every service under /api. Tokens are checked by the
// services themselves; the gateway only routes and keeps internal stock
// endpoints off the edge.
func RegisterAllRoutes(r gin.IRouter, up Upstreams, timeout time.Duration, limit gin.HandlerFunc) {
	api := r.Group("/api", limit)

	users := proxy.NewForwarder(up.User, "/api/users", timeout).Handle
	api.Any("/users/*any", users)

	products := proxy.NewForwarder(up.Product, "/api", timeout).Handle
	api.Any("/products", products)
	api.Any("/products/*any", blockInternal(products))

	orders := proxy.NewForwarder(up.Order, "/api", timeout).Handle
	api.Any("/orders", orders)
	api.Any("/orders/*any", orders)

	payments := proxy.NewForwarder(up.Payment, "/api", timeout).Handle
	api.Any("/payments", payments)
	api.Any("/payments/*any", payments)
}

// blockInternal hides the service-to-service stock endpoints.
func blockInternal(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimSuffix(c.Param("any"), "/")
		if strings.HasSuffix(path, "/reserve") || strings.HasSuffix(path, "/release") {
			apperrors.NoRoute(c)
			return
		}
		next(c)
	}
}
