package service

import (
	"context"

	"github.com/turtacn/credscore/internal/domain/models"
)

// ScoringModel is the trained scorecard consumed as an opaque collaborator.
type ScoringModel interface {
	// Version identifies the loaded artifact.
	Version() string

	// SelectedFeatures returns the fixed, ordered model inputs.
	SelectedFeatures() []string

	// Factor and Offset are the log-odds scaling constants.
	Factor() float64
	Offset() float64

	// TransformWoE maps raw feature values to their weight-of-evidence values.
	TransformWoE(raw models.FeatureVector) (models.FeatureVector, error)

	// PredictProbability returns the positive-class (default) probability.
	PredictProbability(woe models.FeatureVector) (float64, error)
}

// ModelProvider hands out the currently loaded model.
// Current returns a ModelUnavailable service error when nothing is loaded.
type ModelProvider interface {
	Current() (ScoringModel, error)
	Loaded() bool
}

// DecisionPublisher receives finished decisions for audit fan-out.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, record *models.DecisionRecord) error
}

// DecisionMetrics records pipeline outcomes.
type DecisionMetrics interface {
	RecordDecision(tier models.RiskTier, overridden bool, latencySeconds float64)
	RecordRejection(reasons int)
	RecordModelUnavailable()
	RecordPersistenceFailure(sink string)
}

// StatsCache holds the most recent aggregate stats for a short TTL.
// A miss returns (nil, false, nil).
type StatsCache interface {
	GetStats(ctx context.Context) (*models.DecisionStats, bool, error)
	SetStats(ctx context.Context, stats *models.DecisionStats) error
}

// DecisionSigner produces a tamper-evidence signature for a stored decision.
type DecisionSigner interface {
	Sign(record *models.DecisionRecord) (string, error)
}
