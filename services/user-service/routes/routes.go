package routes

import (
	"github.com/shopswift/marketplace/services/user-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes mounts the identity API. authenticate guards the profile
// endpoints and rateLimit the credential endpoints.
func RegisterUserRoutes(r gin.IRouter, uc *controllers.UserController, authenticate, rateLimit gin.HandlerFunc) {
	r.POST("/register", rateLimit, uc.Register)
	r.POST("/login", rateLimit, uc.Login)
	r.POST("/verify-token", uc.VerifyToken)

	profile := r.Group("/profile", authenticate)
	profile.GET("", uc.GetProfile)
	profile.PATCH("", uc.UpdateProfile)
	profile.PUT("", uc.UpdateProfile)
}
