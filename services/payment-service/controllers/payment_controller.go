package controllers

import (
	"context"
	"net/http"

	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/validation"
	"github.com/shopswift/marketplace/services/payment-service/models"

	"github.com/gin-gonic/gin"
)

type IPaymentService interface {
	ProcessPayment(ctx context.Context, userID, orderID, paymentMethod string) (*models.Payment, error)
	GetPaymentByOrder(ctx context.Context, userID, orderID string) (*models.Payment, error)
}

type ProcessPaymentRequest struct {
	OrderID       string `json:"orderId" validate:"required,hexadecimal,len=24"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type PaymentController struct {
	service   IPaymentService
	validator *validation.RequestValidator
}

func NewPaymentController(service IPaymentService) *PaymentController {
	return &PaymentController{service: service, validator: validation.NewRequestValidator()}
}

func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	var req ProcessPaymentRequest
	if err := pc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	payment, err := pc.service.ProcessPayment(c.Request.Context(), principal.UserID, req.OrderID, req.PaymentMethod)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (pc *PaymentController) GetPaymentByOrder(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	payment, err := pc.service.GetPaymentByOrder(c.Request.Context(), principal.UserID, c.Param("orderId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
