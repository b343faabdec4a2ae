//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/infrastructure/audit"
)

func TestPgxDecisionRepository(t *testing.T) {
	if os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("Skipping Docker-dependent tests")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("credscore"),
		tcpostgres.WithUsername("credscore"),
		tcpostgres.WithPassword("credscore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewPgxDecisionRepository(pool, audit.NewHMACSigner("integration-secret"), nil)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be idempotent")
	require.NoError(t, repo.Ping(ctx))

	stats, err := repo.AggregateStats(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPredictions)
	assert.Zero(t, stats.AvgCreditScore)

	now := time.Now().UTC()
	for i, tc := range []struct {
		score int
		tier  models.RiskTier
		age   time.Duration
	}{
		{600, models.RiskTierLow, time.Hour},
		{560, models.RiskTierMedium, 2 * time.Hour},
		{450, models.RiskTierHigh, 72 * time.Hour},
	} {
		record := &models.DecisionRecord{
			Decision: &models.Decision{
				ID:          uuid.New(),
				ApplicantID: "PG-" + string(rune('A'+i)),
				Score:       tc.score,
				Probability: 0.2,
				Tier:        tc.tier,
				Explanation: "integration",
				Latency:     2 * time.Millisecond,
				DecidedAt:   now.Add(-tc.age),
			},
			Applicant: models.ApplicantRecord{RevolUtil: 140}.WithRevolUtilCap(100),
		}
		require.NoError(t, repo.AppendDecision(ctx, record))
	}

	stats, err = repo.AggregateStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPredictions)
	assert.Equal(t, 536.67, stats.AvgCreditScore)
	assert.Equal(t, int64(2), stats.Last24h)
	assert.Equal(t, int64(1), stats.ByRiskLevel["High"])

	var signed int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM predictions WHERE signature <> ''").Scan(&signed))
	assert.Equal(t, 3, signed)

	history, err := repo.FindByApplicant(ctx, "PG-C", 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 450, history[0].Decision.Score)
	assert.Equal(t, 100.0, history[0].Applicant.RevolUtil)
	assert.Equal(t, 2*time.Millisecond, history[0].Decision.Latency)
}
