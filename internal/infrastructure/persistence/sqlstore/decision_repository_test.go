package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service/mocks"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := Open(context.Background(), &config.DatabaseConfig{
		Driver:      DriverSQLite,
		SQLitePath:  fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxConns:    1,
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newRecord(applicantID string, score int, tier models.RiskTier, at time.Time) *models.DecisionRecord {
	return &models.DecisionRecord{
		Decision: &models.Decision{
			ID:          uuid.New(),
			ApplicantID: applicantID,
			Score:       score,
			Probability: 0.1,
			Tier:        tier,
			Explanation: "test",
			Latency:     3 * time.Millisecond,
			DecidedAt:   at,
		},
		Applicant: models.ApplicantRecord{
			ApplicantID: applicantID,
			RevolUtil:   100,
			AnnualInc:   52000,
		},
		RequestIP: "127.0.0.1",
	}
}

func TestGormDecisionRepository_AggregateStats_Empty(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)

	stats, err := repo.AggregateStats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPredictions)
	assert.Zero(t, stats.AvgCreditScore)
	assert.Zero(t, stats.Last24h)
	assert.Empty(t, stats.ByRiskLevel)
}

func TestGormDecisionRepository_AppendAndAggregate(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendDecision(ctx, newRecord("A1", 600, models.RiskTierLow, now.Add(-time.Hour))))
	require.NoError(t, repo.AppendDecision(ctx, newRecord("A2", 560, models.RiskTierMedium, now.Add(-2*time.Hour))))
	require.NoError(t, repo.AppendDecision(ctx, newRecord("A3", 450, models.RiskTierHigh, now.Add(-48*time.Hour))))

	stats, err := repo.AggregateStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPredictions)
	assert.Equal(t, map[string]int64{"Low": 1, "Medium": 1, "High": 1}, stats.ByRiskLevel)
	assert.Equal(t, 536.67, stats.AvgCreditScore)
	assert.Equal(t, int64(2), stats.Last24h)
}

func TestGormDecisionRepository_StoresScoredInputs(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)
	ctx := context.Background()

	record := newRecord("CAP", 500, models.RiskTierMedium, time.Now())
	record.Applicant = models.ApplicantRecord{ApplicantID: "CAP", RevolUtil: 150}.WithRevolUtilCap(100)
	require.NoError(t, repo.AppendDecision(ctx, record))

	records, err := repo.FindByApplicant(ctx, "CAP", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 100.0, records[0].Applicant.RevolUtil)
	assert.Equal(t, 500, records[0].Decision.Score)
	assert.Equal(t, "127.0.0.1", records[0].RequestIP)
}

func TestGormDecisionRepository_AggregateStats_AverageRoundsBinaryValue(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)
	ctx := context.Background()
	now := time.Now()

	// 20003/40 = 500.075，二进制值略小于 500.075
	for i := 0; i < 40; i++ {
		score := 500
		if i < 3 {
			score = 501
		}
		require.NoError(t, repo.AppendDecision(ctx, newRecord(fmt.Sprintf("AVG%02d", i), score, models.RiskTierMedium, now)))
	}

	stats, err := repo.AggregateStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(40), stats.TotalPredictions)
	assert.Equal(t, 500.07, stats.AvgCreditScore)
}

func TestGormDecisionRepository_Signature(t *testing.T) {
	db := setupTestDB(t)
	signer := new(mocks.MockDecisionSigner)
	signer.On("Sign", mock.Anything).Return("c2lnbmF0dXJl", nil).Once()
	signer.On("Sign", mock.Anything).Return("", errors.New("boom")).Once()

	repo := NewGormDecisionRepository(db, signer, nil)
	ctx := context.Background()
	require.NoError(t, repo.AppendDecision(ctx, newRecord("S1", 600, models.RiskTierLow, time.Now())))
	require.NoError(t, repo.AppendDecision(ctx, newRecord("S2", 600, models.RiskTierLow, time.Now())), "signing failure must not block the insert")

	var rows []predictionDBM
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "c2lnbmF0dXJl", rows[0].Signature)
	assert.Empty(t, rows[1].Signature)
	signer.AssertExpectations(t)
}

func TestGormDecisionRepository_AppendNil(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)
	assert.Error(t, repo.AppendDecision(context.Background(), nil))
}

func TestGormDecisionRepository_Ping(t *testing.T) {
	repo := NewGormDecisionRepository(setupTestDB(t), nil, nil)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unsupported")
}
