package infrastructure

import (
	"context"

	"shopkart/orders-service/internal/app/orders/entity"
)

// PaymentGateway платежный шлюз, в котором заводится заказ для онлайн-оплаты
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*entity.GatewayOrder, error)
	GetOrder(ctx context.Context, orderID string) (*entity.GatewayOrder, error)
}
