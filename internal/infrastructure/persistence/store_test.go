package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/infrastructure/persistence/sqlstore"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, &config.DatabaseConfig{
		Driver:      sqlstore.DriverSQLite,
		SQLitePath:  "file:open_store_sqlite?mode=memory&cache=shared",
		MaxConns:    1,
		AutoMigrate: true,
	}, "audit-secret", nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, store.Close()) }()

	assert.Equal(t, "sqlite", store.Driver)
	require.NoError(t, store.Repository.Ping(ctx))

	now := time.Now().UTC()
	require.NoError(t, store.Repository.AppendDecision(ctx, &models.DecisionRecord{
		Decision: &models.Decision{
			ID:          uuid.New(),
			ApplicantID: "A1",
			Score:       600,
			Probability: 0.05,
			Tier:        models.RiskTierLow,
			DecidedAt:   now,
		},
		Applicant: models.ApplicantRecord{ApplicantID: "A1", AnnualInc: 50000},
	}))

	stats, err := store.Repository.AggregateStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPredictions)

	history, err := store.History(ctx, "A1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.DatabaseConfig{Driver: "oracle"}, "", nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
