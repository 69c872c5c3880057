package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = "shopkart.users"

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and normalizes email", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		user := &entity.User{Name: "Alice", Email: "  Alice@Example.COM "}

		err := repo.Create(context.Background(), user)

		require.NoError(mt, err)
		assert.False(mt, user.ID.IsZero())
		assert.Equal(mt, "alice@example.com", user.Email)
		assert.NotNil(mt, user.WishList)
		assert.NotNil(mt, user.RecentlyViewed)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &entity.User{Email: "alice@example.com"})

		assert.True(mt, errors.Is(err, ErrDuplicateEmail))
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		id := primitive.NewObjectID()
		productID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: "user"},
			{Key: "recentlyViewed", Value: bson.A{bson.D{
				{Key: "product", Value: productID},
				{Key: "name", Value: "Phone"},
				{Key: "price", Value: 100.0},
			}}},
			{Key: "version", Value: int64(7)},
		}))

		user, err := repo.GetByEmail(context.Background(), "ALICE@example.com")

		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, int64(7), user.Version)
		require.Len(mt, user.RecentlyViewed, 1)
		assert.Equal(mt, productID, user.RecentlyViewed[0].Product)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")

		assert.True(mt, errors.Is(err, ErrUserNotFound))
	})
}

func TestUserRepository_GetByID_InvalidID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}

		_, err := repo.GetByID(context.Background(), "42")

		assert.True(mt, errors.Is(err, ErrInvalidID))
	})
}

func TestUserRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("bumps version", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		user := &entity.User{ID: primitive.NewObjectID(), Version: 1}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.Update(context.Background(), user)

		require.NoError(mt, err)
		assert.Equal(mt, int64(2), user.Version)
	})

	mt.Run("keeps reset token", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		expire := time.Now().Add(15 * time.Minute)
		user := &entity.User{ID: primitive.NewObjectID(), ResetPasswordToken: "hash", ResetPasswordExpire: &expire}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.Update(context.Background(), user))
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		user := &entity.User{ID: primitive.NewObjectID(), Version: 1}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
		)

		err := repo.Update(context.Background(), user)

		assert.True(mt, errors.Is(err, ErrVersionConflict))
		assert.Equal(mt, int64(1), user.Version)
	})

	mt.Run("deleted meanwhile", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		user := &entity.User{ID: primitive.NewObjectID()}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
		)

		err := repo.Update(context.Background(), user)

		assert.True(mt, errors.Is(err, ErrUserNotFound))
	})
}

func TestUserRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes users", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "A"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "B"}},
		))

		users, err := repo.List(context.Background())

		require.NoError(mt, err)
		assert.Len(mt, users, 2)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing", func(mt *mtest.T) {
		repo := &userRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())

		assert.True(mt, errors.Is(err, ErrUserNotFound))
	})
}
