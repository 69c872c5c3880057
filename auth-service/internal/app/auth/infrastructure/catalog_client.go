package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/pkg/httpclient"
)

// ErrProductNotFound каталог не знает такого товара
var ErrProductNotFound = errors.New("product not found in catalog")

// HTTPCatalogClient читает карточки товаров из catalog-service
type HTTPCatalogClient struct {
	baseURL string
	client  *httpclient.Client
}

func NewCatalogClient(baseURL string, client *httpclient.Client) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: baseURL,
		client:  client,
	}
}

type productResponse struct {
	Success bool                    `json:"success"`
	Product *entity.ProductSnapshot `json:"product"`
}

// GetProduct GET {catalog}/api/v1/product/:id
func (c *HTTPCatalogClient) GetProduct(ctx context.Context, productID string) (*entity.ProductSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v1/product/%s", c.baseURL, url.PathEscape(productID))

	var resp productResponse
	err := c.client.DoJSON(ctx, http.MethodGet, endpoint, nil, nil, &resp)
	if err != nil {
		// 400 каталог отвечает на невалидный ObjectID
		if httpclient.IsStatus(err, http.StatusNotFound) || httpclient.IsStatus(err, http.StatusBadRequest) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	if resp.Product == nil {
		return nil, ErrProductNotFound
	}

	return resp.Product, nil
}
