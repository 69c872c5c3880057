package service

import (
	"errors"
	"fmt"

	"shopkart/catalog-service/internal/app/catalog/query"
	"shopkart/catalog-service/internal/app/catalog/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidReviewer  = errors.New("invalid reviewer")
	ErrImagesRequired   = errors.New("at least one product image is required")
	ErrConcurrentUpdate = errors.New("product was modified concurrently, try again")
	ErrInvalidFilter    = query.ErrInvalidFilter
)

// mapRepositoryError переводит ошибки репозитория в ошибки сервиса
func mapRepositoryError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return ErrInvalidProductID
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
