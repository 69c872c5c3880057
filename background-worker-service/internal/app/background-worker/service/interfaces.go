package service

import (
	"context"

	"shopkart/background-worker-service/internal/app/background-worker/entity"
)

// OrderEventProcessor обработка события заказа из Kafka
type OrderEventProcessor interface {
	ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error
}

// RatingReconciler пересчет рейтингов по расписанию
type RatingReconciler interface {
	Reconcile(ctx context.Context) error
}
