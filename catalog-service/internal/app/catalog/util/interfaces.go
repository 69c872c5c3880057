package util

import (
	"context"
	"io"
	"time"

	"shopkart/catalog-service/internal/app/catalog/entity"
)

// ProductCache кеш карточек товаров
// Get возвращает (nil, nil) при промахе
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	SetProduct(ctx context.Context, product *entity.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, id string) error
	Close() error
}

// MediaStore внешнее хранилище изображений товаров
type MediaStore interface {
	Upload(ctx context.Context, file io.Reader) (entity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}
