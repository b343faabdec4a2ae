package service

import (
	"context"
	"time"

	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/repository"
	domainService "github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
)

// StatsAppService serves aggregate decision statistics
type StatsAppService interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type statsAppServiceImpl struct {
	repo     repository.DecisionRepository
	cache    domainService.StatsCache
	provider domainService.ModelProvider
	logger   logger.Logger
	now      func() time.Time
}

// NewStatsAppService creates a StatsAppService. cache may be nil.
func NewStatsAppService(
	repo repository.DecisionRepository,
	cache domainService.StatsCache,
	provider domainService.ModelProvider,
	log logger.Logger,
) StatsAppService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &statsAppServiceImpl{
		repo:     repo,
		cache:    cache,
		provider: provider,
		logger:   log.WithComponent("stats_app_service"),
		now:      time.Now,
	}
}

// GetStats returns cached stats when fresh, otherwise aggregates from the store.
// Cache errors degrade to a store read.
func (s *statsAppServiceImpl) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	if s.cache != nil {
		stats, ok, err := s.cache.GetStats(ctx)
		if err != nil {
			s.logger.Warn(ctx, "Stats cache read failed", logger.Err(err))
		} else if ok {
			return s.toResponse(stats), nil
		}
	}

	stats, err := s.repo.AggregateStats(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error(ctx, "Failed to aggregate stats", err)
		if _, ok := errors.AsServiceError(err); ok {
			return nil, err
		}
		return nil, errors.ErrDatabaseOperation("aggregate_stats", err)
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			s.logger.Warn(ctx, "Stats cache write failed", logger.Err(err))
		}
	}

	return s.toResponse(stats), nil
}

func (s *statsAppServiceImpl) toResponse(stats *models.DecisionStats) *dto.StatsResponse {
	byTier := make(map[string]int64, len(stats.ByRiskLevel))
	for k, v := range stats.ByRiskLevel {
		byTier[k] = v
	}
	return &dto.StatsResponse{
		TotalPredictions: stats.TotalPredictions,
		ByRiskLevel:      byTier,
		AvgCreditScore:   stats.AvgCreditScore,
		Last24h:          stats.Last24h,
		ModelLoaded:      s.provider != nil && s.provider.Loaded(),
	}
}
