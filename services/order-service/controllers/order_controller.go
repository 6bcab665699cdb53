package controllers

import (
	"context"
	"net/http"

	"github.com/shopswift/marketplace/services/common/auth"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/validation"
	"github.com/shopswift/marketplace/services/order-service/models"
	"github.com/shopswift/marketplace/services/order-service/services"

	"github.com/gin-gonic/gin"
)

type IOrderService interface {
	CreateOrder(ctx context.Context, userID string, items []services.CreateOrderItem) (*models.Order, error)
	GetOrder(ctx context.Context, principal auth.Principal, id string) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*services.OrderResponse, error)
	UpdateStatus(ctx context.Context, principal auth.Principal, id, status string) (*models.Order, error)
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Products []OrderItemRequest `json:"products" validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderController struct {
	orderService IOrderService
	validator    *validation.RequestValidator
}

func NewOrderController(orderService IOrderService) *OrderController {
	return &OrderController{orderService: orderService, validator: validation.NewRequestValidator()}
}

// CreateOrder handles order creation requests
func (oc *OrderController) CreateOrder(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := oc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	items := make([]services.CreateOrderItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = services.CreateOrderItem{ProductID: p.ProductID, Quantity: p.Quantity}
	}

	order, err := oc.orderService.CreateOrder(c.Request.Context(), principal.UserID, items)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	page, limit := validation.ParsePagination(c)
	result, err := oc.orderService.GetUserOrders(c.Request.Context(), principal.UserID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrderByID returns a specific order for the caller, or any order for a peer service
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	order, err := oc.orderService.GetOrder(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
		return
	}

	var req UpdateStatusRequest
	if err := oc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	order, err := oc.orderService.UpdateStatus(c.Request.Context(), principal, c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}
