package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopswift/marketplace/services/common/database"
	"github.com/shopswift/marketplace/services/payment-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("payment not found")
	ErrDuplicate = errors.New("duplicate transaction id")
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	FindLatestByOrderAndUser(ctx context.Context, orderID, userID string) (*models.Payment, error)
}

type MongoPaymentRepo struct {
	collection *mongo.Collection
}

func NewMongoPaymentRepo(db *mongo.Database) *MongoPaymentRepo {
	return &MongoPaymentRepo{collection: db.Collection("payments")}
}

func (r *MongoPaymentRepo) EnsureIndexes(ctx context.Context) {
	database.EnsureIndexes(ctx, r.collection,
		mongo.IndexModel{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		mongo.IndexModel{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	)
}

func (r *MongoPaymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	now := time.Now().UTC()
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// FindLatestByOrderAndUser returns the newest attempt, so a retry after a
// failed settlement shadows the failure.
func (r *MongoPaymentRepo) FindLatestByOrderAndUser(ctx context.Context, orderID, userID string) (*models.Payment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID, "userId": userID}, opts).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}
