package routes

import (
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/order-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes mounts the order API. Creation and listing belong to end
// users; reads by id and status changes also accept the service token.
func RegisterOrderRoutes(r gin.IRouter, oc *controllers.OrderController, authenticate gin.HandlerFunc) {
	orderRoutes := r.Group("/orders", authenticate)
	{
		orderRoutes.POST("", middleware.RequireUser(), oc.CreateOrder)
		orderRoutes.GET("", middleware.RequireUser(), oc.GetOrders)
		orderRoutes.GET("/:id", oc.GetOrderByID)
		orderRoutes.PATCH("/:id/status", oc.UpdateOrderStatus)
	}
}
