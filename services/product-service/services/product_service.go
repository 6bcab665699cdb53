package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/shopswift/marketplace/services/common/errors"
	"github.com/shopswift/marketplace/services/common/logger"
	"github.com/shopswift/marketplace/services/common/money"
	"github.com/shopswift/marketplace/services/product-service/cache"
	"github.com/shopswift/marketplace/services/product-service/models"
	"github.com/shopswift/marketplace/services/product-service/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type IProductRepository interface {
	List(ctx context.Context, category string, page, limit int) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Reserve(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	Release(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
}

// ProductInput is a complete product as accepted by create and replace.
type ProductInput struct {
	Name        string
	Description string
	Price       money.Money
	Category    string
	Quantity    int
}

// ProductPatch carries only the fields a partial update touches.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *money.Money
	Category    *string
	Quantity    *int
}

type ListProductsParams struct {
	Category string
	Page     int
	Limit    int
}

var (
	ErrProductNotFound = apperrors.NotFound("Product not found")
	ErrStockConflict   = apperrors.Conflict("Insufficient stock")
)

type ProductService struct {
	repo    IProductRepository
	cache   cache.ProductCache
	metrics *Metrics
}

func NewProductService(repo IProductRepository, productCache cache.ProductCache, metrics *Metrics) *ProductService {
	if productCache == nil {
		productCache = cache.NoopCache{}
	}
	return &ProductService{repo: repo, cache: productCache, metrics: metrics}
}

func (s *ProductService) ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, int64, error) {
	products, total, err := s.repo.List(ctx, strings.TrimSpace(params.Category), params.Page, params.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if product, ok := s.cache.Get(ctx, rawID); ok {
		return product, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.cache.Set(ctx, product)
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Quantity:    in.Quantity,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Invalidate(ctx, product.ID.Hex())

	logger.FromContext(ctx).Info("Product created", zap.String("product_id", product.ID.Hex()))
	return product, nil
}

// ReplaceProduct overwrites every mutable field.
func (s *ProductService) ReplaceProduct(ctx context.Context, rawID string, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.update(ctx, rawID, bson.M{
		"name":        strings.TrimSpace(in.Name),
		"description": in.Description,
		"price":       in.Price,
		"category":    strings.TrimSpace(in.Category),
		"quantity":    in.Quantity,
	})
}

func (s *ProductService) PatchProduct(ctx context.Context, rawID string, patch ProductPatch) (*models.Product, error) {
	updates := bson.M{}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, apperrors.Validation("description cannot be empty")
		}
		updates["description"] = *patch.Description
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return nil, apperrors.Validation("price must be greater than 0")
		}
		updates["price"] = *patch.Price
	}
	if patch.Category != nil {
		if strings.TrimSpace(*patch.Category) == "" {
			return nil, apperrors.Validation("category cannot be empty")
		}
		updates["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, apperrors.Validation("quantity must be 0 or greater")
		}
		updates["quantity"] = *patch.Quantity
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("No fields to update")
	}
	return s.update(ctx, rawID, updates)
}

func (s *ProductService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return ErrProductNotFound
	}
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !removed {
		return ErrProductNotFound
	}
	s.cache.Invalidate(ctx, rawID)

	logger.FromContext(ctx).Info("Product deleted", zap.String("product_id", rawID))
	return nil
}

// ReserveStock atomically takes qty units out of stock and returns the product
// as it is after the decrement.
func (s *ProductService) ReserveStock(ctx context.Context, rawID string, qty int) (*models.Product, error) {
	id, err := parseStockRequest(rawID, qty)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Reserve(ctx, id, qty)
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		s.metrics.observe("insufficient")
		logger.FromContext(ctx).Info("Stock reservation rejected", zap.String("product_id", rawID), zap.Int("quantity", qty))
		return nil, ErrStockConflict
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.observe("not_found")
		return nil, ErrProductNotFound
	case err != nil:
		return nil, apperrors.Internal(err)
	}
	s.metrics.observe("reserved")
	s.cache.Invalidate(ctx, rawID)
	return product, nil
}

// ReleaseStock puts qty units back.
func (s *ProductService) ReleaseStock(ctx context.Context, rawID string, qty int) (*models.Product, error) {
	id, err := parseStockRequest(rawID, qty)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Release(ctx, id, qty)
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.metrics.observe("released")
	s.cache.Invalidate(ctx, rawID)
	return product, nil
}

func (s *ProductService) update(ctx context.Context, rawID string, updates bson.M) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.cache.Invalidate(ctx, rawID)
	return product, nil
}

func validateInput(in ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperrors.Validation("name is required")
	case strings.TrimSpace(in.Description) == "":
		return apperrors.Validation("description is required")
	case strings.TrimSpace(in.Category) == "":
		return apperrors.Validation("category is required")
	case !in.Price.IsPositive():
		return apperrors.Validation("price must be greater than 0")
	case in.Quantity < 0:
		return apperrors.Validation("quantity must be 0 or greater")
	}
	return nil
}

func parseStockRequest(rawID string, qty int) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return primitive.NilObjectID, ErrProductNotFound
	}
	if qty < 1 {
		return primitive.NilObjectID, apperrors.Validation("quantity must be at least 1")
	}
	return id, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProductNotFound
	}
	return apperrors.Internal(err)
}
