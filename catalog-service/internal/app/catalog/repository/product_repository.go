package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName        = "catalog-service"
	productsCollection = "products"
)

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает репозиторий товаров
// Создает индексы под сортировку каталога и частые фильтры
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection(productsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}},
			Options: options.Index().SetName("category_price_idx"),
		},
		{
			Keys:    bson.D{{Key: "brand.name", Value: 1}},
			Options: options.Index().SetName("brand_name_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать с другими опциями
		logger.Warn().Err(err).Str("collection", productsCollection).Msg("Failed to create indexes")
	}

	return &productRepository{collection: collection}
}

// Create сохраняет новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, productsCollection)
	defer timer.ObserveDuration()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.Reviews == nil {
		product.Reviews = []entity.Review{}
	}
	product.Version = 0

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID получает товар по ObjectID в hex-представлении
func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, productsCollection)
	defer timer.ObserveDuration()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var product entity.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// Find возвращает товары по фильтру
func (r *productRepository) Find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, productsCollection)
	defer timer.ObserveDuration()

	if filter == nil {
		filter = bson.D{}
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []entity.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Count считает товары по фильтру
func (r *productRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCount, productsCollection)
	defer timer.ObserveDuration()

	if filter == nil {
		filter = bson.D{}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCount)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Update сохраняет поля карточки товара (compare-and-swap по version)
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	update := bson.M{
		"$set": bson.M{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"cuttedPrice": product.CuttedPrice,
			"offers":      product.Offers,
			"highlights":  product.Highlights,
			"warranty":    product.Warranty,
			"images":      product.Images,
			"category":    product.Category,
			"brand":       product.Brand,
			"stock":       product.Stock,
			"discount":    product.Discount,
		},
		"$inc": bson.M{"version": 1},
	}

	return r.compareAndSwap(ctx, product, update)
}

// SaveReviews сохраняет отзывы вместе с производными ratings и numOfReviews
// одним обновлением, чтобы они не расходились
func (r *productRepository) SaveReviews(ctx context.Context, product *entity.Product) error {
	update := bson.M{
		"$set": bson.M{
			"reviews":      product.Reviews,
			"ratings":      product.Ratings,
			"numOfReviews": product.NumOfReviews,
		},
		"$inc": bson.M{"version": 1},
	}

	return r.compareAndSwap(ctx, product, update)
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id string) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, productsCollection)
	defer timer.ObserveDuration()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// compareAndSwap применяет update, только если version не изменилась с момента чтения
func (r *productRepository) compareAndSwap(ctx context.Context, product *entity.Product, update bson.M) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, productsCollection)
	defer timer.ObserveDuration()

	result, err := r.collection.UpdateOne(ctx, versionFilter(product.ID, product.Version), update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": product.ID})
		if err != nil {
			return fmt.Errorf("failed to check product existence: %w", err)
		}
		if count == 0 {
			return ErrProductNotFound
		}
		metrics.RecordVersionConflict(serviceName, productsCollection)
		return ErrVersionConflict
	}

	product.Version++
	return nil
}

// versionFilter для версии 0 учитывает документы, созданные без поля version
func versionFilter(id primitive.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "version": version}
}
