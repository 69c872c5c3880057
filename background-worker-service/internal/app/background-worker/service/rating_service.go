package service

import (
	"context"
	"time"

	"shopkart/background-worker-service/internal/app/background-worker/repository"
	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"
)

// RatingService исправляет расхождения ratings/numOfReviews с массивом reviews
type RatingService struct {
	productRepo repository.ProductRepository
	cacheRepo   repository.CacheRepository
}

func NewRatingService(productRepo repository.ProductRepository, cacheRepo repository.CacheRepository) *RatingService {
	return &RatingService{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
	}
}

// Reconcile находит товары с расхождением и пересчитывает их одним UpdateMany
func (s *RatingService) Reconcile(ctx context.Context) error {
	start := time.Now()

	ids, err := s.productRepo.FindRatingDrift(ctx)
	if err != nil {
		metrics.WorkerRatingReconciliations.WithLabelValues("failed").Inc()
		return err
	}

	if len(ids) == 0 {
		metrics.WorkerRatingReconciliations.WithLabelValues("success").Inc()
		logger.Debug().Msg("Ratings are consistent")
		return nil
	}

	modified, err := s.productRepo.ReconcileRatings(ctx, ids)
	if err != nil {
		metrics.WorkerRatingReconciliations.WithLabelValues("failed").Inc()
		return err
	}

	productIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		productIDs = append(productIDs, id.Hex())
	}
	if err := s.cacheRepo.InvalidateProducts(ctx, productIDs...); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate reconciled products")
	}

	metrics.WorkerRatingReconciliations.WithLabelValues("success").Inc()
	logger.Info().
		Int("drifted", len(ids)).
		Int64("modified", modified).
		Dur("duration", time.Since(start)).
		Msg("Product ratings reconciled")

	return nil
}
