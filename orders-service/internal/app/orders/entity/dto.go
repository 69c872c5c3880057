package entity

import "time"

// CreateOrderRequest тело /createorder, /createorderonline и orderOptions при подтверждении оплаты
type CreateOrderRequest struct {
	ShippingInfo    ShippingInfo       `json:"shippingInfo" validate:"required"`
	OrderItems      []OrderItemRequest `json:"orderItems" validate:"required,min=1,dive"`
	PaymentMethod   string             `json:"paymentMethod" validate:"omitempty,oneof=COD Online"`
	ItemsPrice      float64            `json:"itemsPrice" validate:"gte=0"`
	ShippingCharges float64            `json:"shippingCharges" validate:"gte=0"`
	TotalAmount     float64            `json:"totalAmount" validate:"gt=0"`
}

type OrderItemRequest struct {
	Product     string  `json:"product" validate:"required,len=24,hexadecimal"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	CuttedPrice float64 `json:"cuttedPrice" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"required"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
}

// PaymentVerificationRequest ответ платежного окна, пересланный фронтендом
type PaymentVerificationRequest struct {
	RazorpayOrderID   string              `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string              `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string              `json:"razorpay_signature" validate:"required"`
	OrderOptions      *CreateOrderRequest `json:"orderOptions" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=Processing Shipped Delivered OrderCancel"`
}

// OrderFilter параметры /orders/me
type OrderFilter struct {
	Search      string
	OrderStatus string
}

// GatewayOrder заказ на стороне платежного шлюза
type GatewayOrder struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
}

// OrderEvent событие заказа в order_events; worker по нему списывает остатки
type OrderEvent struct {
	EventType   string           `json:"event_type"` // ORDER_CREATED, ORDER_STATUS_UPDATED
	OrderID     string           `json:"order_id"`
	UserID      string           `json:"user_id"`
	OrderStatus OrderStatus      `json:"order_status"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrderResponse struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
}

type OrdersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
}

// AdminOrdersResponse totalAmount сумма totalAmount всех заказов
type AdminOrdersResponse struct {
	Success     bool    `json:"success"`
	TotalAmount float64 `json:"totalAmount"`
	Orders      []Order `json:"orders"`
}

type OnlineOrderResponse struct {
	Success      bool                `json:"success"`
	Order        *GatewayOrder       `json:"order"`
	OrderOptions *CreateOrderRequest `json:"orderOptions"`
}

type KeyResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
}
