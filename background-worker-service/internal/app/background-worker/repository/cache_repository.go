package repository

import (
	"context"
	"fmt"
	"time"

	"shopkart/background-worker-service/internal/app/background-worker/entity"
	"shopkart/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// cacheRepository реализует CacheRepository поверх Redis
type cacheRepository struct {
	client   *redis.Client
	claimTTL time.Duration
}

// NewCacheRepository claimTTL должен перекрывать срок хранения сообщений в Kafka
func NewCacheRepository(client *redis.Client, claimTTL time.Duration) CacheRepository {
	return &cacheRepository{
		client:   client,
		claimTTL: claimTTL,
	}
}

func (r *cacheRepository) InvalidateProducts(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, entity.ProductCacheKey(id))
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}

	return nil
}

func (r *cacheRepository) ClaimStockUpdate(ctx context.Context, orderID, productID string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	claimed, err := r.client.SetNX(ctx, entity.StockClaimKey(orderID, productID), time.Now().Unix(), r.claimTTL).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return false, fmt.Errorf("failed to claim stock update: %w", err)
	}

	return claimed, nil
}

func (r *cacheRepository) ReleaseStockUpdate(ctx context.Context, orderID, productID string) error {
	if err := r.client.Del(ctx, entity.StockClaimKey(orderID, productID)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to release stock claim: %w", err)
	}
	return nil
}

func (r *cacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
