package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid product id")
)

// ProductRepository остатки и рейтинги товаров в MongoDB
type ProductRepository interface {
	// DecrementStock уменьшает stock на quantity и увеличивает version
	DecrementStock(ctx context.Context, productID string, quantity int) error

	// FindRatingDrift возвращает товары, у которых ratings или numOfReviews
	// не совпадают с массивом reviews
	FindRatingDrift(ctx context.Context) ([]primitive.ObjectID, error)

	// ReconcileRatings пересчитывает ratings и numOfReviews указанных товаров одним обновлением
	ReconcileRatings(ctx context.Context, ids []primitive.ObjectID) (int64, error)

	Ping(ctx context.Context) error
}

// CacheRepository кеш карточек товаров и отметки обработанных позиций в Redis
type CacheRepository interface {
	// InvalidateProducts удаляет карточки товаров из кеша
	InvalidateProducts(ctx context.Context, productIDs ...string) error

	// ClaimStockUpdate ставит отметку о списании позиции.
	// false, если отметка уже стоит (событие пришло повторно).
	ClaimStockUpdate(ctx context.Context, orderID, productID string) (bool, error)

	// ReleaseStockUpdate снимает отметку, если списание не удалось
	ReleaseStockUpdate(ctx context.Context, orderID, productID string) error

	Ping(ctx context.Context) error
}
