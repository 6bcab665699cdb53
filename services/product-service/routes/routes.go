package routes

import (
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/product-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterProductRoutes mounts the catalog API. Reads are public; writes need
// the vendor capability and stock moves need the service token.
func RegisterProductRoutes(r gin.IRouter, pc *controllers.ProductController, authenticate gin.HandlerFunc) {
	products := r.Group("/products")
	{
		products.GET("", pc.GetProducts)
		products.GET("/:id", pc.GetProductByID)
	}

	vendor := products.Group("", authenticate, middleware.RequireVendor())
	{
		vendor.POST("", pc.CreateProduct)
		vendor.PUT("/:id", pc.ReplaceProduct)
		vendor.PATCH("/:id", pc.PatchProduct)
		vendor.DELETE("/:id", pc.DeleteProduct)
	}

	internal := products.Group("/:id", authenticate, middleware.RequireService())
	{
		internal.POST("/reserve", pc.ReserveStock)
		internal.POST("/release", pc.ReleaseStock)
	}
}
