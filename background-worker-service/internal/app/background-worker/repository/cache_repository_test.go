package repository

import (
	"context"
	"testing"
	"time"

	"shopkart/background-worker-service/internal/app/background-worker/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CacheRepositoryTestSuite тестовый suite для Redis repository
type CacheRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      CacheRepository
}

func TestCacheRepositorySuite(t *testing.T) {
	suite.Run(t, new(CacheRepositoryTestSuite))
}

func (s *CacheRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewCacheRepository(s.client, time.Hour)
}

func (s *CacheRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *CacheRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *CacheRepositoryTestSuite) TestInvalidateProducts() {
	ctx := context.Background()
	s.Require().NoError(s.miniRedis.Set(entity.ProductCacheKey("p1"), "{}"))
	s.Require().NoError(s.miniRedis.Set(entity.ProductCacheKey("p2"), "{}"))
	s.Require().NoError(s.miniRedis.Set(entity.ProductCacheKey("p3"), "{}"))

	err := s.repo.InvalidateProducts(ctx, "p1", "p2")

	s.NoError(err)
	s.False(s.miniRedis.Exists("product:p1"))
	s.False(s.miniRedis.Exists("product:p2"))
	s.True(s.miniRedis.Exists("product:p3"))
}

func (s *CacheRepositoryTestSuite) TestInvalidateProducts_NoIDs() {
	s.NoError(s.repo.InvalidateProducts(context.Background()))
}

func (s *CacheRepositoryTestSuite) TestClaimStockUpdate_OnlyOnce() {
	ctx := context.Background()

	first, err := s.repo.ClaimStockUpdate(ctx, "order-1", "p1")
	s.Require().NoError(err)
	second, err := s.repo.ClaimStockUpdate(ctx, "order-1", "p1")
	s.Require().NoError(err)
	other, err := s.repo.ClaimStockUpdate(ctx, "order-1", "p2")
	s.Require().NoError(err)

	s.True(first)
	s.False(second)
	s.True(other)
	s.Equal(time.Hour, s.miniRedis.TTL(entity.StockClaimKey("order-1", "p1")))
}

func (s *CacheRepositoryTestSuite) TestReleaseStockUpdate() {
	ctx := context.Background()

	_, err := s.repo.ClaimStockUpdate(ctx, "order-1", "p1")
	s.Require().NoError(err)
	s.Require().NoError(s.repo.ReleaseStockUpdate(ctx, "order-1", "p1"))

	claimed, err := s.repo.ClaimStockUpdate(ctx, "order-1", "p1")
	s.NoError(err)
	s.True(claimed)
}

func (s *CacheRepositoryTestSuite) TestPing() {
	s.NoError(s.repo.Ping(context.Background()))
}
