package service

import (
	"context"
	"io"

	"shopkart/catalog-service/internal/app/catalog/entity"
)

type CatalogServiceInterface interface {
	ListProducts(ctx context.Context, params map[string][]string) (*entity.ProductListResponse, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	AdminListProducts(ctx context.Context) (*entity.AdminProductListResponse, error)
	CreateProduct(ctx context.Context, adminID string, input *entity.ProductInput, images []io.Reader) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, input *entity.ProductInput, images []io.Reader) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, reviewer entity.Reviewer, req *entity.SubmitReviewRequest) (bool, error)
	GetReviews(ctx context.Context, productID string) ([]entity.Review, error)
	DeleteReview(ctx context.Context, productID, reviewID string) error
}
