package repository

import (
	"context"
	"time"

	"github.com/turtacn/credscore/internal/domain/models"
)

//go:generate mockery --name DecisionRepository --output ../service/mocks --filename decision_repository_mock.go
type DecisionRepository interface {
	// AppendDecision stores one decision and its raw inputs as a single atomic insert.
	// Concurrent appends must not interleave.
	AppendDecision(ctx context.Context, record *models.DecisionRecord) error

	// AggregateStats returns totals, per-tier counts, mean score (2 dp, 0 when empty)
	// and the count of decisions within the 24h window ending at now.
	AggregateStats(ctx context.Context, now time.Time) (*models.DecisionStats, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
