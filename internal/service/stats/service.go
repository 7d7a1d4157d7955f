// Package stats serves aggregate row counts with a short-lived cache
// in front of the counting query.
package stats

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

const cacheKey = "statistics"

type Service struct {
	repo  repository.StatsRepository
	cache *gocache.Cache
}

func NewService(repo repository.StatsRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *Service) Counts(ctx context.Context) (*model.Statistics, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.Statistics), nil
	}

	stats, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect statistics: %w", err)
	}
	s.cache.SetDefault(cacheKey, stats)
	return stats, nil
}
