package controllers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopswift/marketplace/services/common/auth"
	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/middleware"
	"github.com/shopswift/marketplace/services/common/money"
	"github.com/shopswift/marketplace/services/order-service/controllers"
	"github.com/shopswift/marketplace/services/order-service/models"
	"github.com/shopswift/marketplace/services/order-service/routes"
	"github.com/shopswift/marketplace/services/order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const serviceToken = "svc-secret"

var alice = auth.Principal{UserID: "64b000000000000000000001", Role: auth.RoleUser}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, items []services.CreateOrderItem) (*models.Order, error) {
	return m.order(m.Called(ctx, userID, items))
}

func (m *MockOrderService) GetOrder(ctx context.Context, principal auth.Principal, id string) (*models.Order, error) {
	return m.order(m.Called(ctx, principal, id))
}

func (m *MockOrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*services.OrderResponse, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, principal auth.Principal, id, status string) (*models.Order, error) {
	return m.order(m.Called(ctx, principal, id, status))
}

func (m *MockOrderService) order(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type tokenTable map[string]auth.Principal

func (t tokenTable) Verify(_ context.Context, token string) (auth.Principal, error) {
	p, ok := t[token]
	if !ok {
		return auth.Principal{}, apperrors.ErrInvalidToken
	}
	return p, nil
}

func newRouter(svc controllers.IOrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(zap.NewNop()))
	authenticate := middleware.Authenticate(tokenTable{"alice-token": alice}, serviceToken)
	routes.RegisterOrderRoutes(r, controllers.NewOrderController(svc), authenticate)
	return r
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleOrder(status models.Status) *models.Order {
	return &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: alice.UserID,
		Products: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), Quantity: 2, Price: money.MustParse("19.99")},
		},
		TotalAmount: money.MustParse("39.98"),
		Status:      status,
	}
}

func TestCreateOrderController(t *testing.T) {
	productID := primitive.NewObjectID().Hex()

	t.Run("Success - 201 Created", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything, alice.UserID, []services.CreateOrderItem{{ProductID: productID, Quantity: 2}}).
			Return(sampleOrder(models.StatusPending), nil).Once()

		rec := do(newRouter(svc), http.MethodPost, "/orders", "alice-token",
			`{"products":[{"productId":"`+productID+`","quantity":2}]}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"totalAmount":39.98`)
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - empty products - 400", func(t *testing.T) {
		svc := new(MockOrderService)
		rec := do(newRouter(svc), http.MethodPost, "/orders", "alice-token", `{"products":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - insufficient stock - 400", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("CreateOrder", mock.Anything, alice.UserID, mock.Anything).
			Return(nil, apperrors.New(http.StatusBadRequest, "Insufficient stock for product: "+productID, nil)).Once()

		rec := do(newRouter(svc), http.MethodPost, "/orders", "alice-token",
			`{"products":[{"productId":"`+productID+`","quantity":50}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Insufficient stock for product: `+productID+`"}`, rec.Body.String())
	})

	t.Run("Failure - service token cannot place orders - 403", func(t *testing.T) {
		rec := do(newRouter(new(MockOrderService)), http.MethodPost, "/orders", serviceToken,
			`{"products":[{"productId":"`+productID+`","quantity":1}]}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Failure - no token - 401", func(t *testing.T) {
		rec := do(newRouter(new(MockOrderService)), http.MethodPost, "/orders", "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetOrdersController(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("GetUserOrders", mock.Anything, alice.UserID, 2, 100).Return(&services.OrderResponse{
		Orders: []models.Order{*sampleOrder(models.StatusPending)},
		Meta:   services.MetaData{Page: 2, Limit: 100, Total: 101, TotalPages: 2},
	}, nil).Once()

	rec := do(newRouter(svc), http.MethodGet, "/orders?page=2&limit=500", "alice-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPages":2`)
	svc.AssertExpectations(t)
}

func TestGetOrderByIDController(t *testing.T) {
	order := sampleOrder(models.StatusPending)

	t.Run("service principal is passed through", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("GetOrder", mock.Anything, auth.ServicePrincipal(), order.ID.Hex()).Return(order, nil).Once()

		rec := do(newRouter(svc), http.MethodGet, "/orders/"+order.ID.Hex(), serviceToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"userId":"`+alice.UserID+`"`)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("GetOrder", mock.Anything, alice, "missing").Return(nil, services.ErrOrderNotFound).Once()

		rec := do(newRouter(svc), http.MethodGet, "/orders/missing", "alice-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Order not found"}`, rec.Body.String())
	})
}

func TestUpdateOrderStatusController(t *testing.T) {
	order := sampleOrder(models.StatusProcessing)

	t.Run("service moves to processing", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, auth.ServicePrincipal(), order.ID.Hex(), "processing").Return(order, nil).Once()

		rec := do(newRouter(svc), http.MethodPatch, "/orders/"+order.ID.Hex()+"/status", serviceToken, `{"status":"processing"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("illegal transition is a conflict", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("UpdateStatus", mock.Anything, alice, order.ID.Hex(), "cancelled").
			Return(nil, apperrors.New(http.StatusConflict, "Invalid status transition from delivered to cancelled", nil)).Once()

		rec := do(newRouter(svc), http.MethodPatch, "/orders/"+order.ID.Hex()+"/status", "alice-token", `{"status":"cancelled"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		rec := do(newRouter(new(MockOrderService)), http.MethodPatch, "/orders/"+order.ID.Hex()+"/status", "alice-token", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
