package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/orders-service/internal/app/orders/repository"
	"shopkart/pkg/logger"
	"shopkart/pkg/messaging"
	"shopkart/pkg/metrics"

	"github.com/google/uuid"
)

// OrderService заказы покупателей и их администрирование
type OrderService struct {
	orderRepo repository.OrderRepository
	publisher messaging.Publisher
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, publisher messaging.Publisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// PlaceCODOrder оформляет заказ с оплатой при получении
func (s *OrderService) PlaceCODOrder(ctx context.Context, userID string, req *entity.CreateOrderRequest) (*entity.Order, error) {
	order := entity.NewOrder(userID, req, entity.PaymentMethodCOD, s.now())

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(entity.PaymentMethodCOD).Inc()
	metrics.OrdersTotal.Add(order.TotalAmount)
	s.publish(ctx, order, entity.EventOrderCreated)

	logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Float64("total_amount", order.TotalAmount).
		Msg("COD order placed")

	return order, nil
}

// GetOrder заказ доступен владельцу и администратору
func (s *OrderService) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*entity.Order, error) {
	order, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !order.OwnedBy(userID) {
		return nil, ErrForbidden
	}

	return order, nil
}

// MyOrders заказы пользователя с поиском по названию позиции и фильтром по статусу
func (s *OrderService) MyOrders(ctx context.Context, userID string, filter entity.OrderFilter) ([]entity.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, filter)
}

// AllOrders все заказы и их общая сумма (admin)
func (s *OrderService) AllOrders(ctx context.Context) ([]entity.Order, float64, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total float64
	for _, order := range orders {
		total += order.TotalAmount
	}

	return orders, total, nil
}

// UpdateStatus меняет статус заказа (admin). Списание остатков при Shipped
// выполняет background-worker по событию ORDER_STATUS_UPDATED.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	order, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.ApplyStatus(status, s.now()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	s.publish(ctx, order, entity.EventOrderStatusUpdated)

	return order, nil
}

// DeleteOrder удаляет заказ (admin)
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return ErrOrderNotFound
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	return nil
}

func (s *OrderService) getByID(ctx context.Context, id string) (*entity.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// publish ошибки Kafka не откатывают уже сохраненный заказ
func (s *OrderService) publish(ctx context.Context, order *entity.Order, eventType string) {
	messaging.PublishEvent(ctx, s.publisher, order.ID.String(), order.Event(eventType, s.now()))
}
