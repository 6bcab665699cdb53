package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/product-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) EnsureIndexes(ctx context.Context) {
	database.EnsureIndexes(ctx, r.collection,
		mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
	)
}

// List returns one page of products, newest first, and the total matching count.
// An empty category matches everything.
func (r *ProductRepository) List(ctx context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update sets the given fields and returns the product after the change.
func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error) {
	updates["updatedAt"] = time.Now().UTC()
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
}

// Delete reports whether a document was removed.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Reserve decrements quantity by qty in a single conditional update, so stock
// never goes negative under concurrent orders. It returns ErrInsufficientStock
// when the product exists but holds fewer than qty units.
func (r *ProductRepository) Reserve(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	product, err := r.findOneAndUpdate(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"quantity": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if !errors.Is(err, ErrNotFound) {
		return product, err
	}

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("count product: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrInsufficientStock
}

// Release returns qty units to stock.
func (r *ProductRepository) Release(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"quantity": qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}
