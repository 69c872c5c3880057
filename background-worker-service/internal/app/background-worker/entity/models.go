package entity

import "time"

// Типы событий топика order_events
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

// OrderStatusShipped статус, при котором списываются остатки
const OrderStatusShipped = "Shipped"

// OrderEvent событие заказа, которое публикует orders-service
type OrderEvent struct {
	EventType   string           `json:"event_type"`
	OrderID     string           `json:"order_id"`
	UserID      string           `json:"user_id"`
	OrderStatus string           `json:"order_status"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OrderEventItem позиция заказа: товар каталога и количество
type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ShouldDecrementStock только отгрузка уменьшает остатки
func (e *OrderEvent) ShouldDecrementStock() bool {
	return e.EventType == EventTypeOrderStatusUpdated && e.OrderStatus == OrderStatusShipped
}

// ProductCacheKey ключ карточки товара в кеше catalog-service
func ProductCacheKey(productID string) string {
	return "product:" + productID
}

// StockClaimKey отметка о том, что позиция заказа уже списана
func StockClaimKey(orderID, productID string) string {
	return "worker:stock:" + orderID + ":" + productID
}
