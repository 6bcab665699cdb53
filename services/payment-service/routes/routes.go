package routes

import (
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/payment-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes mounts the billing API for end users. /process is kept
// for older clients.
func RegisterPaymentRoutes(r gin.IRouter, pc *controllers.PaymentController, authenticate gin.HandlerFunc) {
	payments := r.Group("/payments", authenticate, middleware.RequireUser())
	payments.POST("", pc.ProcessPayment)
	payments.POST("/process", pc.ProcessPayment)
	payments.GET("/order/:orderId", pc.GetPaymentByOrder)
}
