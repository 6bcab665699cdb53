package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Connect dials MongoDB and pings it before returning the named database.
func Connect(ctx context.Context, mongoURI, dbName string) (*mongo.Database, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(timeoutCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	zap.L().Info("Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName), nil
}

// Close disconnects the client behind db.
func Close(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Client().Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// EnsureIndexes creates the given indexes, logging rather than failing so a
// read-only replica can still serve traffic.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		zap.L().Warn("Index creation failed",
			zap.String("collection", coll.Name()),
			zap.Error(err),
		)
	}
}
