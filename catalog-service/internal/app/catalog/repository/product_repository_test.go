package repository

import (
	"context"
	"errors"
	"testing"

	"shopkart/catalog-service/internal/app/catalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNamespace = "shopkart.products"

func TestProductRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Pixel 8"},
			{Key: "price", Value: 59999.0},
			{Key: "ratings", Value: 4.5},
			{Key: "version", Value: int64(3)},
		}))

		product, err := repo.GetByID(context.Background(), id.Hex())

		require.NoError(mt, err)
		assert.Equal(mt, "Pixel 8", product.Name)
		assert.Equal(mt, 4.5, product.Ratings)
		assert.Equal(mt, int64(3), product.Version)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())

		assert.True(mt, errors.Is(err, ErrProductNotFound))
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}

		_, err := repo.GetByID(context.Background(), "not-an-object-id")

		assert.True(mt, errors.Is(err, ErrInvalidID))
	})
}

func TestProductRepository_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes window", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "A"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "B"}},
		))

		products, err := repo.Find(context.Background(), bson.D{{Key: "category", Value: "Mobiles"}}, nil)

		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, "A", products[0].Name)
	})

	mt.Run("empty result is not nil", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		products, err := repo.Find(context.Background(), nil, nil)

		require.NoError(mt, err)
		assert.NotNil(mt, products)
		assert.Empty(mt, products)
	})
}

func TestProductRepository_SaveReviews(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("bumps version", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		product := &entity.Product{ID: primitive.NewObjectID(), Version: 2}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.SaveReviews(context.Background(), product)

		require.NoError(mt, err)
		assert.Equal(mt, int64(3), product.Version)
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		product := &entity.Product{ID: primitive.NewObjectID(), Version: 2}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
		)

		err := repo.SaveReviews(context.Background(), product)

		assert.True(mt, errors.Is(err, ErrVersionConflict))
		assert.Equal(mt, int64(2), product.Version)
	})

	mt.Run("deleted meanwhile", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		product := &entity.Product{ID: primitive.NewObjectID()}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch),
		)

		err := repo.SaveReviews(context.Background(), product)

		assert.True(mt, errors.Is(err, ErrProductNotFound))
	})
}

func TestProductRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing", func(mt *mtest.T) {
		repo := &productRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())

		assert.True(mt, errors.Is(err, ErrProductNotFound))
	})
}

func TestVersionFilter(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": id, "version": int64(4)}, versionFilter(id, 4))
	assert.Equal(t, bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}, versionFilter(id, 0))
}
