package repository

import (
	"context"
	"testing"

	"github.com/shopswift/marketplace/services/common/auth"
	"github.com/shopswift/marketplace/services/user-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: auth.RoleUser}
		require.NoError(mt, repo.Create(context.Background(), u))
		assert.False(mt, u.ID.IsZero())
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("create maps duplicate key", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "db.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: "vendor"},
		}))

		u, err := repo.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, auth.RoleVendor, u.Role)
	})

	mt.Run("find by id not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update profile returns new document", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice2"},
			{Key: "email", Value: "alice@example.com"},
		}}))

		u, err := repo.UpdateProfile(context.Background(), id, bson.M{"username": "alice2"})
		require.NoError(mt, err)
		assert.Equal(mt, "alice2", u.Username)
	})

	mt.Run("update profile on missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateProfile(context.Background(), primitive.NewObjectID(), bson.M{"username": "x"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("exists for other", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "db.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		taken, err := repo.ExistsForOther(context.Background(), "email", "bob@example.com", primitive.NewObjectID())
		require.NoError(mt, err)
		assert.True(mt, taken)
	})
}
