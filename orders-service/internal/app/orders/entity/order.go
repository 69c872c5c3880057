package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderStatus статус заказа в том виде, в каком его видит фронтенд
type OrderStatus string

const (
	OrderStatusOrdered    OrderStatus = "Ordered"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "OrderCancel"
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"
)

// ErrAlreadyDelivered доставленный заказ больше не меняет статус
var ErrAlreadyDelivered = errors.New("order has already been delivered")

// ShippingInfo адрес доставки, хранится в колонках shipping_*
type ShippingInfo struct {
	Address string `json:"address" gorm:"type:text;not null" validate:"required"`
	City    string `json:"city" gorm:"type:varchar(100);not null" validate:"required"`
	State   string `json:"state" gorm:"type:varchar(100);not null" validate:"required"`
	Country string `json:"country" gorm:"type:varchar(100);not null" validate:"required"`
	PinCode int64  `json:"pinCode" gorm:"not null" validate:"required"`
	PhoneNo int64  `json:"phoneNo" gorm:"not null" validate:"required"`
}

// Order заказ покупателя
type Order struct {
	ID              uuid.UUID    `json:"_id" gorm:"type:uuid;primaryKey"`
	UserID          string       `json:"user" gorm:"type:varchar(24);not null;index"` // ObjectID пользователя из auth-service
	ShippingInfo    ShippingInfo `json:"shippingInfo" gorm:"embedded;embeddedPrefix:shipping_"`
	Items           []OrderItem  `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PaymentMethod   string       `json:"paymentMethod" gorm:"type:varchar(10);not null"`
	PaymentID       *uuid.UUID   `json:"paymentInfo,omitempty" gorm:"type:uuid"`
	PaidAt          *time.Time   `json:"paidAt,omitempty"`
	ItemsPrice      float64      `json:"itemsPrice" gorm:"type:decimal(12,2);not null"`
	ShippingCharges float64      `json:"shippingCharges" gorm:"type:decimal(12,2);not null"`
	TotalAmount     float64      `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	OrderStatus     OrderStatus  `json:"orderStatus" gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time    `json:"createdAt"`
	ProcessingAt    *time.Time   `json:"processingAt,omitempty"`
	ShippedAt       *time.Time   `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time   `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time   `json:"OrderCancelAT,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem позиция заказа; цена и название фиксируются на момент покупки
type OrderItem struct {
	ID          uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	ProductID   string    `json:"product" gorm:"type:varchar(24);not null"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Price       float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	CuttedPrice float64   `json:"cuttedPrice" gorm:"type:decimal(12,2);not null"`
	Quantity    int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	Image       string    `json:"image" gorm:"type:text;not null"`
	Discount    float64   `json:"discount" gorm:"type:decimal(5,2)"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Payment подтвержденный онлайн-платеж; razorpay_payment_id уникален
type Payment struct {
	ID                uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	RazorpayOrderID   string    `json:"razorpay_order_id" gorm:"type:varchar(64);not null"`
	RazorpayPaymentID string    `json:"razorpay_payment_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	RazorpaySignature string    `json:"razorpay_signature" gorm:"type:varchar(128);not null"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}

// ApplyStatus переводит заказ в новый статус и проставляет время перехода
func (o *Order) ApplyStatus(status OrderStatus, now time.Time) error {
	if o.OrderStatus == OrderStatusDelivered {
		return ErrAlreadyDelivered
	}

	switch status {
	case OrderStatusProcessing:
		o.ProcessingAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}

	o.OrderStatus = status
	return nil
}

// OwnedBy заказ оформлен этим пользователем
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}

// NewOrder собирает заказ из запроса; статус Ordered
func NewOrder(userID string, req *CreateOrderRequest, paymentMethod string, now time.Time) *Order {
	order := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingInfo:    req.ShippingInfo,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      req.ItemsPrice,
		ShippingCharges: req.ShippingCharges,
		TotalAmount:     req.TotalAmount,
		OrderStatus:     OrderStatusOrdered,
		CreatedAt:       now,
		Items:           make([]OrderItem, 0, len(req.OrderItems)),
	}

	for _, item := range req.OrderItems {
		order.Items = append(order.Items, OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.Product,
			Name:        item.Name,
			Price:       item.Price,
			CuttedPrice: item.CuttedPrice,
			Quantity:    item.Quantity,
			Image:       item.Image,
			Discount:    item.Discount,
		})
	}

	return order
}

// Event событие для order_events с позициями заказа
func (o *Order) Event(eventType string, now time.Time) OrderEvent {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderEventItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return OrderEvent{
		EventType:   eventType,
		OrderID:     o.ID.String(),
		UserID:      o.UserID,
		OrderStatus: o.OrderStatus,
		TotalAmount: o.TotalAmount,
		Items:       items,
		Timestamp:   now,
	}
}
