package repository

import (
	"context"
	"errors"

	"shopkart/orders-service/internal/app/orders/entity"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicatePayment = errors.New("payment already recorded")
)

type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями
	Create(ctx context.Context, order *entity.Order) error
	// CreatePaid в одной транзакции сохраняет платеж и оплаченный заказ
	CreatePaid(ctx context.Context, order *entity.Order, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string, filter entity.OrderFilter) ([]entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
