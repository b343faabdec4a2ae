package audit

import (
	"context"

	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/logger"
)

// LogPublisher writes one structured PREDICTION line per decision.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher creates a publisher on top of the process logger.
func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log.WithComponent("audit")}
}

// PublishDecision implements service.DecisionPublisher. It never fails.
func (p *LogPublisher) PublishDecision(ctx context.Context, record *models.DecisionRecord) error {
	ev := NewDecisionEvent(record)
	p.logger.Info(ctx, EventTypePrediction,
		logger.String("type", ev.Type),
		logger.DecisionID(ev.DecisionID),
		logger.ApplicantID(ev.ApplicantID),
		logger.Int("credit_score", ev.CreditScore),
		logger.Float64("default_probability", ev.DefaultProbability),
		logger.RiskLevel(ev.RiskLevel),
		logger.Float64("response_time_ms", ev.ResponseTimeMs),
		logger.Any("input", ev.Input),
	)
	return nil
}
