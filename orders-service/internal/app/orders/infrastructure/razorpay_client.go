package infrastructure

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/pkg/httpclient"
	"shopkart/pkg/logger"
)

// RazorpayClient клиент Orders API Razorpay (basic auth key:secret)
type RazorpayClient struct {
	baseURL string
	auth    string
	client  *httpclient.Client
}

func NewRazorpayClient(baseURL, keyID, keySecret string, client *httpclient.Client) *RazorpayClient {
	return &RazorpayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(keyID+":"+keySecret)),
		client:  client,
	}
}

type createOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder amount в минимальных единицах валюты (пайсы для INR)
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*entity.GatewayOrder, error) {
	var order entity.GatewayOrder
	err := c.client.DoJSON(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/orders",
		map[string]string{"Authorization": c.auth},
		createOrderPayload{Amount: amount, Currency: currency, Receipt: receipt},
		&order,
	)
	if err != nil {
		logger.Error().Err(err).Str("receipt", receipt).Msg("Failed to create gateway order")
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	return &order, nil
}

// GetOrder читает заказ шлюза, в том числе его сумму
func (c *RazorpayClient) GetOrder(ctx context.Context, orderID string) (*entity.GatewayOrder, error) {
	var order entity.GatewayOrder
	err := c.client.DoJSON(
		ctx,
		http.MethodGet,
		c.baseURL+"/v1/orders/"+url.PathEscape(orderID),
		map[string]string{"Authorization": c.auth},
		nil,
		&order,
	)
	if err != nil {
		logger.Error().Err(err).Str("razorpay_order_id", orderID).Msg("Failed to fetch gateway order")
		return nil, fmt.Errorf("failed to fetch gateway order: %w", err)
	}

	return &order, nil
}
