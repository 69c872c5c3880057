package service

import (
	"context"
	"errors"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/catalog-service/internal/app/catalog/repository"
	"shopkart/pkg/logger"
)

// maxWriteAttempts попыток read-modify-write до ErrConcurrentUpdate
const maxWriteAttempts = 3

type saveFunc func(ctx context.Context, product *entity.Product) error

// updateProduct читает товар, применяет apply и сохраняет через save.
// save выполняет compare-and-swap по версии; при конфликте цикл повторяется
// на свежем документе, поэтому параллельные изменения не теряются.
func updateProduct(
	ctx context.Context,
	repo repository.ProductRepository,
	id string,
	apply func(product *entity.Product) error,
	save saveFunc,
) (*entity.Product, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		product, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError("get product", err)
		}

		if err := apply(product); err != nil {
			return nil, err
		}

		err = save(ctx, product)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, mapRepositoryError("save product", err)
		}

		logger.Debug().
			Str("product_id", id).
			Int("attempt", attempt).
			Msg("Product version conflict, retrying")
	}

	return nil, ErrConcurrentUpdate
}
