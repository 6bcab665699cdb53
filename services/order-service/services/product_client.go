package services

import (
	"context"
	"net/http"
	"time"

	"github.com/shopswift/marketplace/services/common/client"
	"github.com/shopswift/marketplace/services/common/money"
)

// ReservedProduct is the part of the catalog's reserve response an order keeps.
type ReservedProduct struct {
	ID       string      `json:"_id"`
	Price    money.Money `json:"price"`
	Quantity int         `json:"quantity"`
}

type stockRequest struct {
	Quantity int `json:"quantity"`
}

// ProductClient moves stock in the product-service using the inter-service token.
type ProductClient struct {
	http         *client.Client
	serviceToken string
}

func NewProductClient(baseURL, serviceToken string, timeout time.Duration) *ProductClient {
	return &ProductClient{http: client.New(baseURL, timeout), serviceToken: serviceToken}
}

// Reserve takes qty units of a product out of stock. A *client.StatusError with
// 409 means there was not enough.
func (pc *ProductClient) Reserve(ctx context.Context, productID string, qty int) (*ReservedProduct, error) {
	var product ReservedProduct
	if err := pc.http.Do(ctx, http.MethodPost, "/products/"+productID+"/reserve", pc.serviceToken, stockRequest{Quantity: qty}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (pc *ProductClient) Release(ctx context.Context, productID string, qty int) error {
	return pc.http.Do(ctx, http.MethodPost, "/products/"+productID+"/release", pc.serviceToken, stockRequest{Quantity: qty}, nil)
}
