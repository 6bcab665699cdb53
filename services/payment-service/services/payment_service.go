package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopswift/marketplace/services/common/client"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/payment-service/models"
	"github.com/shopswift/marketplace/services/payment-service/repository"

	"go.uber.org/zap"
)

// Order statuses billing reads and writes.
const (
	orderPending    = "pending"
	orderProcessing = "processing"
)

// callbackTimeout bounds the order status callback, which outlives the request.
const callbackTimeout = 10 * time.Second

type IOrderClient interface {
	GetOrder(ctx context.Context, orderID string) (*OrderView, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

var (
	ErrOrderNotFound   = apperrors.NotFound("Order not found")
	ErrPaymentNotFound = apperrors.NotFound("Payment not found")
	ErrNotOrderOwner   = apperrors.Forbidden("Unauthorized")
)

type PaymentService struct {
	repo    repository.PaymentRepository
	orders  IOrderClient
	gateway Gateway
	metrics *Metrics
}

func NewPaymentService(repo repository.PaymentRepository, orders IOrderClient, gateway Gateway, metrics *Metrics) *PaymentService {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &PaymentService{repo: repo, orders: orders, gateway: gateway, metrics: metrics}
}

// ProcessPayment settles a pending order owned by userID. Nothing is written
// unless the order passes both checks. A completed payment moves the order to
// processing with a single callback; if that callback fails the payment still
// stands.
func (s *PaymentService) ProcessPayment(ctx context.Context, userID, orderID, paymentMethod string) (*models.Payment, error) {
	log := logger.FromContext(ctx).With(zap.String("order_id", orderID))

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if client.HasStatus(err, http.StatusNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperrors.Upstream("Order service unavailable", err)
	}

	if order.UserID != userID {
		log.Warn("Payment rejected: order belongs to another user", zap.String("user_id", userID))
		return nil, ErrNotOrderOwner
	}
	if order.Status != orderPending {
		log.Info("Payment rejected: order not pending", zap.String("status", order.Status))
		return nil, apperrors.ErrInvalidOrderState
	}

	result, err := s.gateway.Charge(ctx, order.TotalAmount, paymentMethod)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("charge order %s: %w", orderID, err))
	}

	payment := &models.Payment{
		OrderID:       orderID,
		UserID:        userID,
		Amount:        order.TotalAmount,
		Status:        models.PaymentFailed,
		PaymentMethod: paymentMethod,
		TransactionID: result.TransactionID,
	}
	if result.Success {
		payment.Status = models.PaymentCompleted
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.metrics.payments.WithLabelValues(string(payment.Status)).Inc()
	log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.Hex()),
		zap.String("status", string(payment.Status)),
		zap.String("transaction_id", payment.TransactionID),
	)

	if payment.Status == models.PaymentCompleted {
		cbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), callbackTimeout)
		defer cancel()
		if err := s.orders.UpdateStatus(cbCtx, orderID, orderProcessing); err != nil {
			s.metrics.callbackFailures.Inc()
			log.Error("Failed to move paid order to processing", zap.String("payment_id", payment.ID.Hex()), zap.Error(err))
		}
	}
	return payment, nil
}

func (s *PaymentService) GetPaymentByOrder(ctx context.Context, userID, orderID string) (*models.Payment, error) {
	payment, err := s.repo.FindLatestByOrderAndUser(ctx, orderID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return payment, nil
}
