package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Gustavo-rs/gerenciamento-alocacao/internal/models"
	appErrors "github.com/Gustavo-rs/gerenciamento-alocacao/pkg/errors"
)

const (
	dashboardStatsKey     = "dash:stats"
	dashboardCachePattern = "dash:*"
)

type dashboardStatsRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// statsInvalidator drops cached dashboard counters after writes.
type statsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService serves aggregate counters, cached in Redis when enabled.
type DashboardService struct {
	repo   dashboardStatsRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
	now    func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(repo dashboardStatsRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, cfg: cfg, now: time.Now}
}

// Stats returns the dashboard counters and whether they came from cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, dashboardStatsKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	stats.GeneratedAt = s.now().UTC()
	if err := s.cache.Set(ctx, dashboardStatsKey, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("dashboard stats not cached", zap.Error(err))
	}
	return stats, false, nil
}

// InvalidateStats drops cached counters. Failures are logged only.
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
