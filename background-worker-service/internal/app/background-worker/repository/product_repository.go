package repository

import (
	"context"
	"fmt"

	"shopkart/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName        = "background-worker"
	productsCollection = "products"
)

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository работает с той же коллекцией products, что и catalog-service
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection(productsCollection)}
}

func (r *productRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, productsCollection)
	defer timer.ObserveDuration()

	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{"$inc": bson.M{"stock": -quantity, "version": 1}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) FindRatingDrift(ctx context.Context) ([]primitive.ObjectID, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, productsCollection)
	defer timer.ObserveDuration()

	filter := bson.M{"$expr": bson.M{"$or": bson.A{
		bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{"$numOfReviews", 0}}, reviewCountExpr()}},
		bson.M{"$ne": bson.A{bson.M{"$ifNull": bson.A{"$ratings", 0}}, averageRatingExpr()}},
	}}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find rating drift: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode product ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	return ids, nil
}

func (r *productRepository) ReconcileRatings(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, productsCollection)
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "numOfReviews", Value: reviewCountExpr()},
			{Key: "ratings", Value: averageRatingExpr()},
			{Key: "version", Value: bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$version", 0}}, 1}}},
		}}},
	}

	result, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, pipeline)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return 0, fmt.Errorf("failed to reconcile ratings: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *productRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func reviewCountExpr() bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}}}
}

// averageRatingExpr среднее reviews.rating; 0 для товара без отзывов
func averageRatingExpr() bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{reviewCountExpr(), 0}},
		bson.M{"$avg": "$reviews.rating"},
		0,
	}}
}
