package handler

import (
	"errors"
	"net/http"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/orders-service/internal/app/orders/service"
	"shopkart/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const roleAdmin = "admin"

// OrderHandler обрабатывает HTTP запросы заказов
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// CreateOrder POST /createorder - заказ с оплатой при получении
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req entity.CreateOrderRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if _, err := h.orderService.PlaceCODOrder(c.Request.Context(), c.GetString("user_id"), &req); err != nil {
		handleError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, true, "Order Placed Successfully via Cash On Delivery")
}

// GetOrder GET /order/:id - владелец или admin
func (h *OrderHandler) GetOrder(c *gin.Context) {
	isAdmin := c.GetString("role") == roleAdmin

	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"), c.GetString("user_id"), isAdmin)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.OrderResponse{Success: true, Order: order})
}

// MyOrders GET /orders/me?search=&orderStatus=
func (h *OrderHandler) MyOrders(c *gin.Context) {
	filter := entity.OrderFilter{
		Search:      c.Query("search"),
		OrderStatus: c.Query("orderStatus"),
	}

	orders, err := h.orderService.MyOrders(c.Request.Context(), c.GetString("user_id"), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.OrdersResponse{Success: true, Orders: orders})
}

// AllOrders GET /admin/orders
func (h *OrderHandler) AllOrders(c *gin.Context) {
	orders, total, err := h.orderService.AllOrders(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.AdminOrdersResponse{Success: true, TotalAmount: total, Orders: orders})
}

// UpdateOrderStatus PUT /admin/order/:id
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req entity.UpdateOrderStatusRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if _, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Order Update Successfully")
}

// DeleteOrder DELETE /admin/order/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Order deleted successfully")
}

func bindAndValidate(c *gin.Context, v *validator.Validate, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid request body")
		return false
	}

	if err := v.Struct(req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, formatValidationError(err))
		return false
	}

	return true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondMessage(c, http.StatusNotFound, false, "Order not found with this Id")
	case errors.Is(err, service.ErrForbidden):
		respondMessage(c, http.StatusForbidden, false, "You are not allowed to access this order")
	case errors.Is(err, service.ErrOrderAlreadyDelivered):
		respondMessage(c, http.StatusBadRequest, false, "You have already delivered this order")
	case errors.Is(err, service.ErrInvalidSignature):
		respondMessage(c, http.StatusBadRequest, false, "Payment verification failed")
	case errors.Is(err, service.ErrAmountMismatch):
		respondMessage(c, http.StatusBadRequest, false, "Payment amount does not match the order")
	case errors.Is(err, service.ErrDuplicatePayment):
		respondMessage(c, http.StatusConflict, false, "Payment has already been verified")
	case errors.Is(err, service.ErrGatewayUnavailable):
		logger.Warn().Err(err).Msg("Payment gateway request failed")
		respondMessage(c, http.StatusBadGateway, false, "Payment gateway is unavailable")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Orders request failed")
		respondMessage(c, http.StatusInternalServerError, false, "Internal Server Error")
	}
}

func respondMessage(c *gin.Context, status int, success bool, message string) {
	c.JSON(status, entity.MessageResponse{Success: success, Message: message})
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
