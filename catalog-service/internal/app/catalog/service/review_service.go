package service

import (
	"context"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/catalog-service/internal/app/catalog/repository"
	"shopkart/catalog-service/internal/app/catalog/util"
	"shopkart/pkg/logger"
	"shopkart/pkg/messaging"
	"shopkart/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService ведет отзывы товара и производные ratings/numOfReviews
type ReviewService struct {
	productRepo repository.ProductRepository
	cache       util.ProductCache
	publisher   messaging.Publisher
}

// NewReviewService создает сервис отзывов
func NewReviewService(
	productRepo repository.ProductRepository,
	cache util.ProductCache,
	publisher messaging.Publisher,
) *ReviewService {
	return &ReviewService{
		productRepo: productRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

// SubmitReview создает отзыв пользователя или заменяет его прежний отзыв.
// Возвращает true, если отзыв новый.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewer entity.Reviewer, req *entity.SubmitReviewRequest) (bool, error) {
	userID, err := primitive.ObjectIDFromHex(reviewer.ID)
	if err != nil {
		return false, ErrInvalidReviewer
	}

	var created bool
	product, err := updateProduct(ctx, s.productRepo, req.ProductID, func(p *entity.Product) error {
		created = p.UpsertReview(userID, reviewer.Name, float64(req.Rating), req.Comment)
		return nil
	}, s.productRepo.SaveReviews)
	if err != nil {
		return false, err
	}

	action := "replaced"
	if created {
		action = "created"
	}
	metrics.ReviewsSubmitted.WithLabelValues(action).Inc()
	metrics.ReviewsRating.Observe(float64(req.Rating))

	s.invalidate(ctx, req.ProductID)
	messaging.PublishEvent(ctx, s.publisher, req.ProductID, entity.NewProductEvent(entity.EventReviewSubmitted, product, reviewer.ID))

	logger.Info().
		Str("product_id", req.ProductID).
		Str("user_id", reviewer.ID).
		Str("action", action).
		Float64("ratings", product.Ratings).
		Msg("Review submitted")

	return created, nil
}

// GetReviews возвращает отзывы товара
func (s *ReviewService) GetReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, mapRepositoryError("get product", err)
	}

	if product.Reviews == nil {
		return []entity.Review{}, nil
	}
	return product.Reviews, nil
}

// DeleteReview удаляет отзыв и пересчитывает рейтинг товара
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID string) error {
	id, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}

	product, err := updateProduct(ctx, s.productRepo, productID, func(p *entity.Product) error {
		if !p.RemoveReview(id) {
			return ErrReviewNotFound
		}
		return nil
	}, s.productRepo.SaveReviews)
	if err != nil {
		return err
	}

	metrics.ReviewsSubmitted.WithLabelValues("deleted").Inc()
	s.invalidate(ctx, productID)
	messaging.PublishEvent(ctx, s.publisher, productID, entity.NewProductEvent(entity.EventReviewDeleted, product, ""))

	return nil
}

func (s *ReviewService) invalidate(ctx context.Context, id string) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to invalidate product cache")
	}
}
