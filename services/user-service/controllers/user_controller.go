package controllers

import (
	"context"
	"net/http"

	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/validation"
	"github.com/shopswift/marketplace/services/user-service/models"
	"github.com/shopswift/marketplace/services/user-service/services"

	"github.com/gin-gonic/gin"
)

type IAuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user vendor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type UserController struct {
	service   IAuthService
	validator *validation.RequestValidator
}

func NewUserController(service IAuthService) *UserController {
	return &UserController{service: service, validator: validation.NewRequestValidator()}
}

func (uc *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := uc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := uc.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, authResponse(res))
}

func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := uc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := uc.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, authResponse(res))
}

func (uc *UserController) GetProfile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	user, err := uc.service.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user.Public()}})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := uc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := uc.service.UpdateProfile(c.Request.Context(), principal.UserID, services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"user": user.Public()}})
}

// VerifyToken is called by peer services. The token may come in the
// Authorization header or as {"token": "..."}.
func (uc *UserController) VerifyToken(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		var req VerifyTokenRequest
		_ = c.ShouldBindJSON(&req)
		token = req.Token
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": apperrors.ErrMissingToken.Message})
		return
	}

	user, err := uc.service.VerifyToken(c.Request.Context(), token)
	if err != nil {
		appErr := apperrors.As(err)
		if appErr.Code != http.StatusUnauthorized {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": appErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user.Public()})
}

func authResponse(res *services.AuthResult) gin.H {
	return gin.H{
		"status":      "success",
		"accessToken": res.AccessToken,
		"data":        gin.H{"user": res.User},
	}
}
