// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/repository"
	domainService "github.com/turtacn/credscore/internal/domain/service"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
)

const tracerName = "github.com/turtacn/credscore/scoring"

// ScoringAppService defines the interface for the credit decision pipeline
type ScoringAppService interface {
	// Score validates, scores, overrides and explains one application.
	// Returns a ValidationFailed or ModelUnavailable ServiceError on rejection.
	Score(ctx context.Context, req *dto.CreditScoreRequest, meta dto.RequestMeta) (*dto.CreditScoreResponse, error)

	// ModelLoaded reports whether a scorecard is currently available
	ModelLoaded() bool
}

// scoringAppServiceImpl is the concrete implementation of ScoringAppService
type scoringAppServiceImpl struct {
	provider  domainService.ModelProvider
	validator *domainService.ApplicantValidator
	scorer    *domainService.Scorer
	repo      repository.DecisionRepository
	publisher domainService.DecisionPublisher
	metrics   domainService.DecisionMetrics
	tracer    trace.Tracer
	logger    logger.Logger
	now       func() time.Time
}

// NewScoringAppService creates a new instance of ScoringAppService.
// repo, publisher and metrics may be nil.
func NewScoringAppService(
	provider domainService.ModelProvider,
	repo repository.DecisionRepository,
	publisher domainService.DecisionPublisher,
	metrics domainService.DecisionMetrics,
	log logger.Logger,
) ScoringAppService {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &scoringAppServiceImpl{
		provider:  provider,
		validator: domainService.NewApplicantValidator(),
		scorer:    domainService.NewScorer(provider),
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
		logger:    log.WithComponent("scoring_app_service"),
		now:       time.Now,
	}
}

// ModelLoaded implements ScoringAppService
func (s *scoringAppServiceImpl) ModelLoaded() bool {
	return s.provider.Loaded()
}

// Score implements ScoringAppService
func (s *scoringAppServiceImpl) Score(ctx context.Context, req *dto.CreditScoreRequest, meta dto.RequestMeta) (*dto.CreditScoreResponse, error) {
	start := s.now()

	ctx, span := s.tracer.Start(ctx, "ScoringAppService.Score")
	defer span.End()

	if req == nil {
		return nil, errors.ErrInvalidRequest("request body is required")
	}

	// 1. Model availability gates everything, including validation
	if !s.provider.Loaded() {
		s.recordModelUnavailable()
		err := errors.ErrModelUnavailable("scoring model is not loaded")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	applicant := req.ToApplicant()
	span.SetAttributes(attribute.String("applicant.id", applicant.ApplicantID))

	// 2. Business-rule validation; any error rejects the application
	outcome := s.validate(ctx, applicant)
	if outcome.Rejected() {
		s.logger.Warn(ctx, "Application rejected by validation",
			logger.String("applicant_id", applicant.ApplicantID),
			logger.Strings("errors", outcome.Errors),
		)
		if s.metrics != nil {
			s.metrics.RecordRejection(len(outcome.Errors))
		}
		span.SetAttributes(attribute.Int("validation.errors", len(outcome.Errors)))
		return nil, errors.ErrValidationFailed(outcome.Errors)
	}

	// 3. Model score
	scored, err := s.score(ctx, applicant)
	if err != nil {
		if errors.IsModelUnavailable(err) {
			s.recordModelUnavailable()
		} else {
			s.logger.Error(ctx, "Scoring failed", err, logger.String("applicant_id", applicant.ApplicantID))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 4. Override and explanation
	final := domainService.ApplyRiskOverride(scored.Score, scored.Probability, outcome.Warnings)
	explanation := domainService.GenerateExplanation(applicant, final.Tier, outcome.Warnings)

	decision := &models.Decision{
		ID:          uuid.New(),
		ApplicantID: applicant.ApplicantID,
		Score:       final.Score,
		Probability: final.Probability,
		Tier:        final.Tier,
		Explanation: explanation,
		Warnings:    outcome.Warnings,
		Overridden:  final.Overridden,
		DecidedAt:   s.now().UTC(),
	}
	decision.Latency = s.now().Sub(start)

	span.SetAttributes(
		attribute.Int("decision.score", decision.Score),
		attribute.String("decision.tier", string(decision.Tier)),
		attribute.Bool("decision.overridden", decision.Overridden),
	)

	// 5. Best-effort persistence and audit; the stored inputs are the ones the model saw
	s.persist(ctx, &models.DecisionRecord{
		Decision:  decision,
		Applicant: applicant.WithRevolUtilCap(constants.MaxRevolvingUtilization),
		RequestIP: meta.ClientIP,
	})

	if s.metrics != nil {
		s.metrics.RecordDecision(decision.Tier, decision.Overridden, decision.Latency.Seconds())
	}

	s.logger.Info(ctx, "Credit decision issued",
		logger.DecisionID(decision.ID.String()),
		logger.ApplicantID(decision.ApplicantID),
		logger.Int("credit_score", decision.Score),
		logger.RiskLevel(string(decision.Tier)),
		logger.Bool("overridden", decision.Overridden),
		logger.Strings("warnings", decision.Warnings),
		logger.String("request_id", meta.RequestID),
	)

	return dto.NewCreditScoreResponse(decision), nil
}

func (s *scoringAppServiceImpl) validate(ctx context.Context, applicant models.ApplicantRecord) models.ValidationOutcome {
	_, span := s.tracer.Start(ctx, "validate")
	defer span.End()
	return s.validator.Validate(applicant)
}

func (s *scoringAppServiceImpl) score(ctx context.Context, applicant models.ApplicantRecord) (models.ScoreResult, error) {
	_, span := s.tracer.Start(ctx, "score")
	defer span.End()
	return s.scorer.Score(applicant)
}

// persist hands the decision to the store and the audit publisher.
// Failures are logged and counted, never returned.
func (s *scoringAppServiceImpl) persist(ctx context.Context, record *models.DecisionRecord) {
	ctx, span := s.tracer.Start(ctx, "persist")
	defer span.End()

	if s.repo != nil {
		if err := s.repo.AppendDecision(ctx, record); err != nil {
			span.RecordError(err)
			s.logger.Error(ctx, "Failed to save prediction", err,
				logger.String("decision_id", record.Decision.ID.String()),
				logger.String("applicant_id", record.Decision.ApplicantID),
			)
			if s.metrics != nil {
				s.metrics.RecordPersistenceFailure("repository")
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishDecision(ctx, record); err != nil {
			span.RecordError(err)
			s.logger.Error(ctx, "Failed to publish decision audit record", err,
				logger.String("decision_id", record.Decision.ID.String()),
			)
			if s.metrics != nil {
				s.metrics.RecordPersistenceFailure("audit")
			}
		}
	}
}

func (s *scoringAppServiceImpl) recordModelUnavailable() {
	if s.metrics != nil {
		s.metrics.RecordModelUnavailable()
	}
}
