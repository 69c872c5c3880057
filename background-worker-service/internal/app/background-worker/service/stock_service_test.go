package service

import (
	"context"
	"errors"
	"testing"

	"shopkart/background-worker-service/internal/app/background-worker/entity"
	"shopkart/background-worker-service/internal/app/background-worker/repository"
	"shopkart/background-worker-service/internal/app/background-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func shippedEvent(items ...entity.OrderEventItem) *entity.OrderEvent {
	return &entity.OrderEvent{
		EventType:   entity.EventTypeOrderStatusUpdated,
		OrderID:     "order-1",
		OrderStatus: entity.OrderStatusShipped,
		Items:       items,
	}
}

func TestStockService_ProcessOrderEvent(t *testing.T) {
	t.Run("decrements every item and invalidates cache", func(t *testing.T) {
		// Arrange
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		cacheRepo.On("ClaimStockUpdate", mock.Anything, "order-1", mock.Anything).Return(true, nil)
		productRepo.On("DecrementStock", mock.Anything, "p1", 2).Return(nil)
		productRepo.On("DecrementStock", mock.Anything, "p2", 1).Return(nil)
		cacheRepo.On("InvalidateProducts", mock.Anything, []string{"p1", "p2"}).Return(nil)

		// Act
		err := svc.ProcessOrderEvent(context.Background(), shippedEvent(
			entity.OrderEventItem{ProductID: "p1", Quantity: 2},
			entity.OrderEventItem{ProductID: "p2", Quantity: 1},
		))

		// Assert
		assert.NoError(t, err)
		productRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("ignores other events", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		events := []*entity.OrderEvent{
			{EventType: entity.EventTypeOrderCreated, OrderStatus: "Ordered"},
			{EventType: entity.EventTypeOrderStatusUpdated, OrderStatus: "Delivered"},
			{EventType: entity.EventTypeOrderStatusUpdated, OrderStatus: "Processing"},
		}
		for _, event := range events {
			assert.NoError(t, svc.ProcessOrderEvent(context.Background(), event))
		}

		productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		cacheRepo.AssertNotCalled(t, "ClaimStockUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("redelivered item is not decremented twice", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		cacheRepo.On("ClaimStockUpdate", mock.Anything, "order-1", "p1").Return(false, nil)
		cacheRepo.On("InvalidateProducts", mock.Anything, []string{}).Return(nil)

		err := svc.ProcessOrderEvent(context.Background(), shippedEvent(entity.OrderEventItem{ProductID: "p1", Quantity: 2}))

		assert.NoError(t, err)
		productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deleted product is skipped", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		cacheRepo.On("ClaimStockUpdate", mock.Anything, "order-1", mock.Anything).Return(true, nil)
		productRepo.On("DecrementStock", mock.Anything, "gone", 1).Return(repository.ErrProductNotFound)
		productRepo.On("DecrementStock", mock.Anything, "p2", 4).Return(nil)
		cacheRepo.On("InvalidateProducts", mock.Anything, []string{"p2"}).Return(nil)

		err := svc.ProcessOrderEvent(context.Background(), shippedEvent(
			entity.OrderEventItem{ProductID: "gone", Quantity: 1},
			entity.OrderEventItem{ProductID: "p2", Quantity: 4},
		))

		assert.NoError(t, err)
		cacheRepo.AssertNotCalled(t, "ReleaseStockUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database error releases claim", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		cacheRepo.On("ClaimStockUpdate", mock.Anything, "order-1", "p1").Return(true, nil)
		productRepo.On("DecrementStock", mock.Anything, "p1", 2).Return(errors.New("connection reset"))
		cacheRepo.On("ReleaseStockUpdate", mock.Anything, "order-1", "p1").Return(nil)

		err := svc.ProcessOrderEvent(context.Background(), shippedEvent(entity.OrderEventItem{ProductID: "p1", Quantity: 2}))

		assert.Error(t, err)
		cacheRepo.AssertCalled(t, "ReleaseStockUpdate", mock.Anything, "order-1", "p1")
		cacheRepo.AssertNotCalled(t, "InvalidateProducts", mock.Anything, mock.Anything)
	})

	t.Run("cache failure does not fail event", func(t *testing.T) {
		productRepo := new(mocks.MockProductRepository)
		cacheRepo := new(mocks.MockCacheRepository)
		svc := NewStockService(productRepo, cacheRepo)

		cacheRepo.On("ClaimStockUpdate", mock.Anything, "order-1", "p1").Return(true, nil)
		productRepo.On("DecrementStock", mock.Anything, "p1", 1).Return(nil)
		cacheRepo.On("InvalidateProducts", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		err := svc.ProcessOrderEvent(context.Background(), shippedEvent(entity.OrderEventItem{ProductID: "p1", Quantity: 1}))

		assert.NoError(t, err)
	})
}
