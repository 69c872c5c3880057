package service

import (
	"context"

	"shopkart/orders-service/internal/app/orders/entity"
)

type OrderServiceInterface interface {
	PlaceCODOrder(ctx context.Context, userID string, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*entity.Order, error)
	MyOrders(ctx context.Context, userID string, filter entity.OrderFilter) ([]entity.Order, error)
	AllOrders(ctx context.Context) ([]entity.Order, float64, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type PaymentServiceInterface interface {
	KeyID() string
	CreateOnlineOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.GatewayOrder, error)
	VerifyPayment(ctx context.Context, userID string, req *entity.PaymentVerificationRequest) (*entity.Order, error)
}
