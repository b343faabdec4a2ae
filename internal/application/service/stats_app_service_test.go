package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service/mocks"
	svcerrors "github.com/turtacn/credscore/pkg/errors"
)

func sampleStats() *models.DecisionStats {
	return &models.DecisionStats{
		TotalPredictions: 3,
		ByRiskLevel:      map[string]int64{"Low": 2, "High": 1},
		AvgCreditScore:   551.67,
		Last24h:          1,
	}
}

func Test_StatsAppService_GetStats_CacheMiss(t *testing.T) {
	repo := new(mocks.MockDecisionRepository)
	cache := new(mocks.MockStatsCache)
	provider := new(mocks.MockModelProvider)

	cache.On("GetStats", mock.Anything).Return(nil, false, nil)
	repo.On("AggregateStats", mock.Anything, mock.AnythingOfType("time.Time")).Return(sampleStats(), nil)
	cache.On("SetStats", mock.Anything, mock.Anything).Return(nil)
	provider.On("Loaded").Return(true)

	svc := NewStatsAppService(repo, cache, provider, nil)
	resp, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalPredictions)
	assert.Equal(t, int64(2), resp.ByRiskLevel["Low"])
	assert.Equal(t, 551.67, resp.AvgCreditScore)
	assert.Equal(t, int64(1), resp.Last24h)
	assert.True(t, resp.ModelLoaded)
	cache.AssertExpectations(t)
}

func Test_StatsAppService_GetStats_CacheHit(t *testing.T) {
	repo := new(mocks.MockDecisionRepository)
	cache := new(mocks.MockStatsCache)
	provider := new(mocks.MockModelProvider)

	cache.On("GetStats", mock.Anything).Return(sampleStats(), true, nil)
	provider.On("Loaded").Return(false)

	resp, err := NewStatsAppService(repo, cache, provider, nil).GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalPredictions)
	assert.False(t, resp.ModelLoaded)
	repo.AssertNotCalled(t, "AggregateStats", mock.Anything, mock.Anything)
}

func Test_StatsAppService_GetStats_CacheErrorFallsBack(t *testing.T) {
	repo := new(mocks.MockDecisionRepository)
	cache := new(mocks.MockStatsCache)
	provider := new(mocks.MockModelProvider)

	cache.On("GetStats", mock.Anything).Return(nil, false, errors.New("redis down"))
	cache.On("SetStats", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	repo.On("AggregateStats", mock.Anything, mock.Anything).Return(models.NewDecisionStats(), nil)
	provider.On("Loaded").Return(true)

	resp, err := NewStatsAppService(repo, cache, provider, nil).GetStats(context.Background())

	require.NoError(t, err)
	assert.Zero(t, resp.TotalPredictions)
	assert.Zero(t, resp.AvgCreditScore)
	assert.NotNil(t, resp.ByRiskLevel)
}

func Test_StatsAppService_GetStats_RepositoryError(t *testing.T) {
	repo := new(mocks.MockDecisionRepository)
	repo.On("AggregateStats", mock.Anything, mock.Anything).Return(nil, errors.New("no such table"))

	_, err := NewStatsAppService(repo, nil, nil, nil).GetStats(context.Background())

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 500, svcErr.HTTPStatus())
}
