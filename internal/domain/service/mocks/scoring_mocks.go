package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

type MockScoringModel struct {
	mock.Mock
}

func (m *MockScoringModel) Version() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockScoringModel) SelectedFeatures() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockScoringModel) Factor() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockScoringModel) Offset() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}

func (m *MockScoringModel) TransformWoE(raw models.FeatureVector) (models.FeatureVector, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.FeatureVector), args.Error(1)
}

func (m *MockScoringModel) PredictProbability(woe models.FeatureVector) (float64, error) {
	args := m.Called(woe)
	return args.Get(0).(float64), args.Error(1)
}

type MockModelProvider struct {
	mock.Mock
}

func (m *MockModelProvider) Current() (service.ScoringModel, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.ScoringModel), args.Error(1)
}

func (m *MockModelProvider) Loaded() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockDecisionPublisher struct {
	mock.Mock
}

func (m *MockDecisionPublisher) PublishDecision(ctx context.Context, record *models.DecisionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockDecisionMetrics struct {
	mock.Mock
}

func (m *MockDecisionMetrics) RecordDecision(tier models.RiskTier, overridden bool, latencySeconds float64) {
	m.Called(tier, overridden, latencySeconds)
}

func (m *MockDecisionMetrics) RecordRejection(reasons int) {
	m.Called(reasons)
}

func (m *MockDecisionMetrics) RecordModelUnavailable() {
	m.Called()
}

func (m *MockDecisionMetrics) RecordPersistenceFailure(sink string) {
	m.Called(sink)
}

type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) AppendDecision(ctx context.Context, record *models.DecisionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDecisionRepository) AggregateStats(ctx context.Context, now time.Time) (*models.DecisionStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DecisionStats), args.Error(1)
}

func (m *MockDecisionRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) GetStats(ctx context.Context) (*models.DecisionStats, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.DecisionStats), args.Bool(1), args.Error(2)
}

func (m *MockStatsCache) SetStats(ctx context.Context, stats *models.DecisionStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

type MockDecisionSigner struct {
	mock.Mock
}

func (m *MockDecisionSigner) Sign(record *models.DecisionRecord) (string, error) {
	args := m.Called(record)
	return args.String(0), args.Error(1)
}
