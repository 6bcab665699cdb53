package controllers

import (
	"context"
	"math"
	"net/http"

	"github.com/shopswift/marketplace/services/common/money"
	"github.com/shopswift/marketplace/services/common/validation"
	"github.com/shopswift/marketplace/services/product-service/models"
	"github.com/shopswift/marketplace/services/product-service/services"

	"github.com/gin-gonic/gin"
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	ListProducts(ctx context.Context, params services.ListProductsParams) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error)
	ReplaceProduct(ctx context.Context, id string, in services.ProductInput) (*models.Product, error)
	PatchProduct(ctx context.Context, id string, patch services.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ReserveStock(ctx context.Context, id string, qty int) (*models.Product, error)
	ReleaseStock(ctx context.Context, id string, qty int) (*models.Product, error)
}

type ProductRequest struct {
	Name        string       `json:"name" validate:"required,max=200"`
	Description string       `json:"description" validate:"required"`
	Price       *money.Money `json:"price" validate:"required"`
	Category    string       `json:"category" validate:"required"`
	Quantity    *int         `json:"quantity" validate:"omitempty,min=0"`
}

type PatchProductRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description" validate:"omitempty,min=1"`
	Price       *money.Money `json:"price"`
	Category    *string      `json:"category" validate:"omitempty,min=1"`
	Quantity    *int         `json:"quantity" validate:"omitempty,min=0"`
}

type StockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type ProductController struct {
	service   ProductServiceAPI
	validator *validation.RequestValidator
}

func NewProductController(service ProductServiceAPI) *ProductController {
	return &ProductController{service: service, validator: validation.NewRequestValidator()}
}

// GetProducts lists products, optionally filtered by ?category=.
func (pc *ProductController) GetProducts(c *gin.Context) {
	page, limit := validation.ParsePagination(c)
	products, total, err := pc.service.ListProducts(c.Request.Context(), services.ListProductsParams{
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"meta": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	product, err := pc.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	in, ok := pc.bindProduct(c)
	if !ok {
		return
	}
	product, err := pc.service.CreateProduct(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (pc *ProductController) ReplaceProduct(c *gin.Context) {
	in, ok := pc.bindProduct(c)
	if !ok {
		return
	}
	product, err := pc.service.ReplaceProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) PatchProduct(c *gin.Context) {
	var req PatchProductRequest
	if err := pc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	product, err := pc.service.PatchProduct(c.Request.Context(), c.Param("id"), services.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Quantity:    req.Quantity,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReserveStock and ReleaseStock are reachable only with the inter-service token.
func (pc *ProductController) ReserveStock(c *gin.Context) {
	pc.moveStock(c, pc.service.ReserveStock)
}

func (pc *ProductController) ReleaseStock(c *gin.Context) {
	pc.moveStock(c, pc.service.ReleaseStock)
}

func (pc *ProductController) moveStock(c *gin.Context, move func(context.Context, string, int) (*models.Product, error)) {
	var req StockRequest
	if err := pc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	product, err := move(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) bindProduct(c *gin.Context) (services.ProductInput, bool) {
	var req ProductRequest
	if err := pc.validator.Bind(c, &req); err != nil {
		_ = c.Error(err)
		return services.ProductInput{}, false
	}
	in := services.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	return in, true
}
