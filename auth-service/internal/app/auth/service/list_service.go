package service

import (
	"context"
	"errors"
	"fmt"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/infrastructure"
	"shopkart/auth-service/internal/app/auth/repository"
	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"
)

const (
	listWishList       = "wishlist"
	listRecentlyViewed = "recently_viewed"
)

// ListService избранное и недавно просмотренные товары.
// Снимок товара берется из catalog-service в момент добавления.
type ListService struct {
	userRepo repository.UserRepository
	catalog  infrastructure.CatalogClient
	policy   entity.EvictionPolicy
}

func NewListService(
	userRepo repository.UserRepository,
	catalog infrastructure.CatalogClient,
	policy entity.EvictionPolicy,
) *ListService {
	return &ListService{
		userRepo: userRepo,
		catalog:  catalog,
		policy:   policy,
	}
}

// ToggleWishList добавляет товар в избранное или убирает, если он там уже есть.
// Возвращает true, если товар добавлен.
func (s *ListService) ToggleWishList(ctx context.Context, userID, productID string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, mapUserError("get user", err)
	}

	entry, err := s.snapshot(ctx, productID)
	if err != nil {
		return false, err
	}

	var added bool
	_, err = updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		added = u.ToggleWishList(entry)
		return nil
	})
	if err != nil {
		return false, err
	}

	if added {
		metrics.RecordListChange(listWishList, "added")
	} else {
		metrics.RecordListChange(listWishList, "removed")
	}

	return added, nil
}

// RecordView добавляет товар в начало списка недавно просмотренных.
// Повторный просмотр того же товара возвращает ErrAlreadyViewed.
func (s *ListService) RecordView(ctx context.Context, userID, productID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapUserError("get user", err)
	}

	entry, err := s.snapshot(ctx, productID)
	if err != nil {
		return err
	}

	var evicted bool
	_, err = updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		evicted = len(u.RecentlyViewed) >= entity.RecentlyViewedCapacity
		return u.RecordView(entry, s.policy)
	})
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyViewed) {
			metrics.RecordListChange(listRecentlyViewed, "duplicate")
		}
		return err
	}

	metrics.RecordListChange(listRecentlyViewed, "added")
	if evicted {
		metrics.RecordListChange(listRecentlyViewed, "evicted")
	}

	return nil
}

// GetRecentlyViewed список недавно просмотренных, начиная с самого свежего
func (s *ListService) GetRecentlyViewed(ctx context.Context, userID string) ([]entity.ListEntry, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	if user.RecentlyViewed == nil {
		return []entity.ListEntry{}, nil
	}
	return user.RecentlyViewed, nil
}

func (s *ListService) snapshot(ctx context.Context, productID string) (entity.ListEntry, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, infrastructure.ErrProductNotFound) {
			return entity.ListEntry{}, ErrProductNotFound
		}
		logger.Error().Err(err).Str("product_id", productID).Msg("Failed to fetch product from catalog")
		return entity.ListEntry{}, fmt.Errorf("failed to get product: %w", err)
	}

	entry, err := product.ToListEntry()
	if err != nil {
		return entity.ListEntry{}, ErrProductNotFound
	}
	return entry, nil
}
