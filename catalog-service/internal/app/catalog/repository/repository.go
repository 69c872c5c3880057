package repository

import (
	"context"
	"errors"

	"shopkart/catalog-service/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid object id")
	// ErrVersionConflict документ изменен другим запросом после чтения
	ErrVersionConflict = errors.New("product version conflict")
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]entity.Product, error)
	Count(ctx context.Context, filter bson.D) (int64, error)
	Update(ctx context.Context, product *entity.Product) error
	SaveReviews(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}
