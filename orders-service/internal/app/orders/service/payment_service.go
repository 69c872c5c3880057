package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/orders-service/internal/app/orders/infrastructure"
	"shopkart/orders-service/internal/app/orders/repository"
	"shopkart/pkg/logger"
	"shopkart/pkg/messaging"
	"shopkart/pkg/metrics"

	"github.com/google/uuid"
)

// gatewayCurrency валюта заказов в платежном шлюзе
const gatewayCurrency = "INR"

// PaymentService онлайн-оплата: заказ в шлюзе, проверка подписи, сохранение оплаченного заказа
type PaymentService struct {
	orderRepo repository.OrderRepository
	gateway   infrastructure.PaymentGateway
	publisher messaging.Publisher
	keyID     string
	keySecret string
	now       func() time.Time
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	gateway infrastructure.PaymentGateway,
	publisher messaging.Publisher,
	keyID, keySecret string,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		publisher: publisher,
		keyID:     keyID,
		keySecret: keySecret,
		now:       time.Now,
	}
}

// KeyID публичный ключ шлюза для платежного окна на фронтенде
func (s *PaymentService) KeyID() string {
	return s.keyID
}

// CreateOnlineOrder заводит заказ в шлюзе на totalAmount*100 пайс.
// Сам заказ сохраняется только после подтверждения оплаты.
func (s *PaymentService) CreateOnlineOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.GatewayOrder, error) {
	order, err := s.gateway.CreateOrder(ctx, toPaise(req.TotalAmount), gatewayCurrency, uuid.NewString())
	if err != nil {
		return nil, errors.Join(ErrGatewayUnavailable, err)
	}

	return order, nil
}

// VerifyPayment проверяет подпись шлюза и сумму заказа в шлюзе,
// затем сохраняет платеж вместе с заказом
func (s *PaymentService) VerifyPayment(ctx context.Context, userID string, req *entity.PaymentVerificationRequest) (*entity.Order, error) {
	if !VerifySignature(s.keySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
		logger.Warn().
			Str("user_id", userID).
			Str("razorpay_order_id", req.RazorpayOrderID).
			Msg("Payment signature mismatch")
		return nil, ErrInvalidSignature
	}

	gatewayOrder, err := s.gateway.GetOrder(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, errors.Join(ErrGatewayUnavailable, err)
	}
	if gatewayOrder.Amount != toPaise(req.OrderOptions.TotalAmount) {
		metrics.PaymentVerifications.WithLabelValues("amount_mismatch").Inc()
		logger.Warn().
			Str("user_id", userID).
			Str("razorpay_order_id", req.RazorpayOrderID).
			Int64("gateway_amount", gatewayOrder.Amount).
			Float64("total_amount", req.OrderOptions.TotalAmount).
			Msg("Paid amount does not match order total")
		return nil, ErrAmountMismatch
	}

	now := s.now()
	payment := &entity.Payment{
		ID:                uuid.New(),
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
		CreatedAt:         now,
	}

	order := entity.NewOrder(userID, req.OrderOptions, entity.PaymentMethodOnline, now)
	order.PaidAt = &now

	if err := s.orderRepo.CreatePaid(ctx, order, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			metrics.PaymentVerifications.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicatePayment
		}
		return nil, err
	}

	metrics.PaymentVerifications.WithLabelValues("success").Inc()
	metrics.OrdersCreated.WithLabelValues(entity.PaymentMethodOnline).Inc()
	metrics.OrdersTotal.Add(order.TotalAmount)
	messaging.PublishEvent(ctx, s.publisher, order.ID.String(), order.Event(entity.EventOrderCreated, now))

	return order, nil
}

// toPaise сумма в рупиях в минимальных единицах INR
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// VerifySignature подпись шлюза: hex(HMAC-SHA256(secret, order_id|payment_id))
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign вычисляет подпись так же, как ее считает шлюз
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
