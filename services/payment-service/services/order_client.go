package services

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopswift/marketplace/services/common/client"
	"github.com/shopswift/marketplace/services/common/money"
)

// OrderView is the slice of an order that billing needs to settle it.
type OrderView struct {
	ID          string      `json:"_id"`
	UserID      string      `json:"userId"`
	TotalAmount money.Money `json:"totalAmount"`
	Status      string      `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// OrderClient reads and advances orders in the order-service using the
// inter-service token.
type OrderClient struct {
	http         *client.Client
	serviceToken string
}

func NewOrderClient(baseURL, serviceToken string, timeout time.Duration) *OrderClient {
	return &OrderClient{http: client.New(baseURL, timeout), serviceToken: serviceToken}
}

func (oc *OrderClient) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	var order OrderView
	if err := oc.http.Do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), oc.serviceToken, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (oc *OrderClient) UpdateStatus(ctx context.Context, orderID, status string) error {
	return oc.http.Do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID)+"/status", oc.serviceToken, statusRequest{Status: status}, nil)
}
