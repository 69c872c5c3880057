package infrastructure

import (
	"context"

	"shopkart/auth-service/internal/app/auth/entity"
)

// CatalogClient источник снимков товаров для списков пользователя
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*entity.ProductSnapshot, error)
}
