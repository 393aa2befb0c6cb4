package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
)

// Service fronts the repository with an optional product cache. Cache
// failures are logged and bypassed; the repository stays the source of
// truth.
type Service struct {
	repo   Repository
	cache  ProductCache
	logger *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache ProductCache, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListProducts returns the full catalog, uncached; the list is small and
// served straight from the repository.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

// GetProduct looks a product up through the cache. Concurrent misses for
// the same id collapse into a single repository read.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache == nil {
		return s.repo.GetProduct(ctx, id)
	}

	v, err, _ := s.sfg.Do(fmt.Sprint(id), func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("product cache get failed", zap.Int64("product_id", id), zap.Error(err))
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), product); errSet != nil {
				s.logger.Warn("product cache set failed", zap.Int64("product_id", id), zap.Error(errSet))
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}
