package handler

import (
	"net/http"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/orders-service/internal/app/orders/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PaymentHandler онлайн-оплата через платежный шлюз
type PaymentHandler struct {
	paymentService service.PaymentServiceInterface
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator.New(),
	}
}

// CreateOnlineOrder POST /createorderonline
// Возвращает заказ шлюза и исходные параметры, которые фронтенд вернет в /paymentverification
func (h *PaymentHandler) CreateOnlineOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	gatewayOrder, err := h.paymentService.CreateOnlineOrder(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.OnlineOrderResponse{
		Success:      true,
		Order:        gatewayOrder,
		OrderOptions: &req,
	})
}

// VerifyPayment POST /paymentverification
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req entity.PaymentVerificationRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	order, err := h.paymentService.VerifyPayment(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.OrderResponse{Success: true, Order: order})
}

// GetKey GET /razorpaykey
func (h *PaymentHandler) GetKey(c *gin.Context) {
	c.JSON(http.StatusOK, entity.KeyResponse{Success: true, Key: h.paymentService.KeyID()})
}
