package service

import (
	"context"
	"errors"
	"fmt"

	"shopkart/background-worker-service/internal/app/background-worker/entity"
	"shopkart/background-worker-service/internal/app/background-worker/repository"
	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"
)

// StockService списывает остатки по отгруженным заказам
type StockService struct {
	productRepo repository.ProductRepository
	cacheRepo   repository.CacheRepository
}

func NewStockService(productRepo repository.ProductRepository, cacheRepo repository.CacheRepository) *StockService {
	return &StockService{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
	}
}

// ProcessOrderEvent на ORDER_STATUS_UPDATED со статусом Shipped уменьшает stock
// каждого товара заказа на его количество. Остальные события пропускаются.
//
// Каждая позиция списывается не более одного раза: повторная доставка
// сообщения видит отметку в Redis. При ошибке отметка снимается, и
// сообщение без коммита offset будет обработано заново.
func (s *StockService) ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	if !event.ShouldDecrementStock() {
		logger.Debug().
			Str("event_type", event.EventType).
			Str("order_id", event.OrderID).
			Str("order_status", event.OrderStatus).
			Msg("Order event skipped")
		return nil
	}

	touched := make([]string, 0, len(event.Items))
	for _, item := range event.Items {
		applied, err := s.decrement(ctx, event.OrderID, item)
		if err != nil {
			return err
		}
		if applied {
			touched = append(touched, item.ProductID)
		}
	}

	if err := s.cacheRepo.InvalidateProducts(ctx, touched...); err != nil {
		// Карточка доживет до TTL, остаток в MongoDB уже верный
		logger.Warn().Err(err).Str("order_id", event.OrderID).Msg("Failed to invalidate product cache")
	}

	logger.Info().
		Str("order_id", event.OrderID).
		Int("items", len(event.Items)).
		Int("applied", len(touched)).
		Msg("Stock decremented for shipped order")

	return nil
}

func (s *StockService) decrement(ctx context.Context, orderID string, item entity.OrderEventItem) (bool, error) {
	claimed, err := s.cacheRepo.ClaimStockUpdate(ctx, orderID, item.ProductID)
	if err != nil {
		return false, err
	}
	if !claimed {
		metrics.WorkerStockUpdates.WithLabelValues("duplicate").Inc()
		return false, nil
	}

	err = s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
	switch {
	case err == nil:
		metrics.WorkerStockUpdates.WithLabelValues("success").Inc()
		return true, nil
	case errors.Is(err, repository.ErrProductNotFound), errors.Is(err, repository.ErrInvalidID):
		// Товар удален из каталога после оформления заказа
		metrics.WorkerStockUpdates.WithLabelValues("missing").Inc()
		logger.Warn().
			Str("order_id", orderID).
			Str("product_id", item.ProductID).
			Msg("Product of shipped order not found, stock not changed")
		return false, nil
	default:
		metrics.WorkerStockUpdates.WithLabelValues("failed").Inc()
		if releaseErr := s.cacheRepo.ReleaseStockUpdate(ctx, orderID, item.ProductID); releaseErr != nil {
			logger.Error().Err(releaseErr).Str("order_id", orderID).Msg("Failed to release stock claim")
		}
		return false, fmt.Errorf("failed to decrement stock of %s: %w", item.ProductID, err)
	}
}
