package service

import (
	"errors"

	"shopkart/orders-service/internal/app/orders/entity"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrForbidden             = errors.New("order belongs to another user")
	ErrOrderAlreadyDelivered = entity.ErrAlreadyDelivered
	ErrInvalidSignature      = errors.New("payment signature mismatch")
	ErrDuplicatePayment      = errors.New("payment already verified")
	ErrGatewayUnavailable    = errors.New("payment gateway unavailable")
	ErrAmountMismatch        = errors.New("order amount differs from gateway order")
)
