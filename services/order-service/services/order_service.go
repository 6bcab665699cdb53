package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/common/client"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/order-service/models"
	repositories "github.com/shopswift/marketplace/services/order-service/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const releaseTimeout = 5 * time.Second

type ICatalogClient interface {
	Reserve(ctx context.Context, productID string, qty int) (*ReservedProduct, error)
	Release(ctx context.Context, productID string, qty int) error
}

type CreateOrderItem struct {
	ProductID string
	Quantity  int
}

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

var ErrOrderNotFound = apperrors.NotFound("Order not found")

type OrderService struct {
	orderRepo repositories.OrderRepository
	catalog   ICatalogClient
	metrics   *Metrics
}

func NewOrderService(orderRepo repositories.OrderRepository, catalog ICatalogClient, metrics *Metrics) *OrderService {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &OrderService{orderRepo: orderRepo, catalog: catalog, metrics: metrics}
}

// CreateOrder reserves stock for each item in turn, then persists a pending
// order priced at the catalog's reserve-time prices. Any failure releases the
// reservations already taken.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, items []CreateOrderItem) (*models.Order, error) {
	ids, err := validateItems(items)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	lines := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		product, err := s.catalog.Reserve(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.releaseAll(ctx, lines)
			if client.HasStatus(err, http.StatusConflict) {
				log.Info("Order rejected: insufficient stock", zap.String("product_id", item.ProductID), zap.Int("quantity", item.Quantity))
				return nil, apperrors.New(apperrors.ErrInsufficientStock.Code, "Insufficient stock for product: "+item.ProductID, err)
			}
			log.Warn("Order rejected: product reservation failed", zap.String("product_id", item.ProductID), zap.Error(err))
			return nil, apperrors.New(apperrors.ErrInvalidProduct.Code, "Invalid product: "+item.ProductID, err)
		}
		lines = append(lines, models.OrderItem{
			ProductID: ids[i],
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	order := &models.Order{
		UserID:      userID,
		Products:    lines,
		TotalAmount: models.Total(lines),
		Status:      models.StatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.releaseAll(ctx, lines)
		return nil, apperrors.Internal(err)
	}

	s.metrics.ordersCreated.Inc()
	log.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", userID),
		zap.String("total", order.TotalAmount.String()),
	)
	return order, nil
}

// GetOrder returns the caller's order. Service principals may read any order.
func (s *OrderService) GetOrder(ctx context.Context, principal auth.Principal, rawID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var order *models.Order
	if principal.IsService() {
		order, err = s.orderRepo.FindByID(ctx, id)
	} else {
		order, err = s.orderRepo.FindByIDAndUserID(ctx, id, principal.UserID)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return order, nil
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderResponse, error) {
	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &OrderResponse{
		Orders: orders,
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

// UpdateStatus applies one step of the order state machine. End users may
// only cancel their own orders; service principals may make any legal move.
func (s *OrderService) UpdateStatus(ctx context.Context, principal auth.Principal, rawID, rawStatus string) (*models.Order, error) {
	next, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation("status must be one of [pending processing shipped delivered cancelled]")
	}
	if !principal.IsService() && next != models.StatusCancelled {
		return nil, apperrors.Forbidden("Users may only cancel orders")
	}

	order, err := s.GetOrder(ctx, principal, rawID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, invalidTransition(order.Status, next)
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, next)
	if errors.Is(err, repositories.ErrStatusChanged) {
		return nil, apperrors.ErrInvalidTransition.Wrap(err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	logger.FromContext(ctx).Info("Order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)),
		zap.Bool("service_call", principal.IsService()),
	)
	return updated, nil
}

// releaseAll is best effort: failures are logged and counted, never retried.
func (s *OrderService) releaseAll(ctx context.Context, lines []models.OrderItem) {
	if len(lines) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	log := logger.FromContext(ctx)
	for _, line := range lines {
		productID := line.ProductID.Hex()
		if err := s.catalog.Release(ctx, productID, line.Quantity); err != nil {
			s.metrics.releaseFailures.Inc()
			log.Error("Stock release failed",
				zap.String("product_id", productID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err),
			)
		}
	}
}

func validateItems(items []CreateOrderItem) ([]primitive.ObjectID, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("At least one product is required")
	}
	ids := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("products[%d].productId is invalid", i))
		}
		if item.Quantity < 1 {
			return nil, apperrors.Validation(fmt.Sprintf("products[%d].quantity must be at least 1", i))
		}
		ids[i] = id
	}
	return ids, nil
}

func invalidTransition(from, to models.Status) error {
	return apperrors.New(apperrors.ErrInvalidTransition.Code, fmt.Sprintf("Invalid status transition from %s to %s", from, to), nil)
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
