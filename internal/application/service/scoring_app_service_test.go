// internal/application/service/scoring_app_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service/mocks"
	svcerrors "github.com/turtacn/credscore/pkg/errors"
	"github.com/turtacn/credscore/pkg/logger"
)

func validRequest() *dto.CreditScoreRequest {
	return dto.NewCreditScoreRequest(models.ApplicantRecord{
		ApplicantID:         "TEST001",
		GradeNumeric:        3,
		IntRate:             13.5,
		InqLast6Mths:        0,
		RevolUtil:           25,
		Installment:         350,
		InstallmentToIncome: 0.07,
		LoanToIncome:        0.30,
		DTI:                 15,
		OpenAcc:             8,
		LoanAmnt:            15000,
		AnnualInc:           50000,
		CreditHistoryMonths: 120,
	})
}

type pipelineFixture struct {
	model     *mocks.MockScoringModel
	provider  *mocks.MockModelProvider
	repo      *mocks.MockDecisionRepository
	publisher *mocks.MockDecisionPublisher
	metrics   *mocks.MockDecisionMetrics
	svc       ScoringAppService
}

func newPipelineFixture(p float64) *pipelineFixture {
	f := &pipelineFixture{
		model:     new(mocks.MockScoringModel),
		provider:  new(mocks.MockModelProvider),
		repo:      new(mocks.MockDecisionRepository),
		publisher: new(mocks.MockDecisionPublisher),
		metrics:   new(mocks.MockDecisionMetrics),
	}
	f.model.On("SelectedFeatures").Return([]string{models.FeatureIntRate, models.FeatureDTI})
	f.model.On("Factor").Return(50.0)
	f.model.On("Offset").Return(500.0)
	f.model.On("TransformWoE", mock.Anything).Return(models.FeatureVector{{Name: "x", Value: 1}}, nil)
	f.model.On("PredictProbability", mock.Anything).Return(p, nil)
	f.provider.On("Loaded").Return(true)
	f.provider.On("Current").Return(f.model, nil)
	f.svc = NewScoringAppService(f.provider, f.repo, f.publisher, f.metrics, logger.NewNoopLogger())
	return f
}

func Test_ScoringAppService_Score_Success(t *testing.T) {
	f := newPipelineFixture(0.05)
	f.repo.On("AppendDecision", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishDecision", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("RecordDecision", models.RiskTierLow, false, mock.AnythingOfType("float64")).Return()

	resp, err := f.svc.Score(context.Background(), validRequest(), dto.RequestMeta{ClientIP: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, "TEST001", resp.ApplicantID)
	assert.Equal(t, 647, resp.CreditScore)
	assert.Equal(t, 0.05, resp.DefaultProbability)
	assert.Equal(t, "Low", resp.RiskLevel)
	assert.Equal(t, "Low default risk; due to long credit history, favorable interest rate, low debt-to-income ratio.", resp.Explanation)

	f.repo.AssertCalled(t, "AppendDecision", mock.Anything, mock.MatchedBy(func(r *models.DecisionRecord) bool {
		return r.RequestIP == "10.0.0.1" &&
			r.Applicant.ApplicantID == "TEST001" &&
			r.Decision.Score == 647 &&
			r.Decision.Latency >= 0
	}))
	f.publisher.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func Test_ScoringAppService_Score_OverrideApplied(t *testing.T) {
	f := newPipelineFixture(0.05)
	f.repo.On("AppendDecision", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishDecision", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("RecordDecision", models.RiskTierHigh, true, mock.Anything).Return()

	req := validRequest()
	history := 6.0
	req.CreditHistoryMonths = &history

	resp, err := f.svc.Score(context.Background(), req, dto.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 450, resp.CreditScore)
	assert.Equal(t, 0.70, resp.DefaultProbability)
	assert.Equal(t, "High", resp.RiskLevel)
	assert.Equal(t, "High default risk; due to favorable interest rate, low debt-to-income ratio, low credit utilization; however, limited credit history.", resp.Explanation)
}

func Test_ScoringAppService_Score_ValidationFailed(t *testing.T) {
	f := newPipelineFixture(0.05)
	f.metrics.On("RecordRejection", 1).Return()

	req := validRequest()
	income := 15000.0
	req.AnnualInc = &income

	resp, err := f.svc.Score(context.Background(), req, dto.RequestMeta{})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, svcerrors.IsValidationFailed(err))
	assert.Equal(t, []string{"Income $15,000 below minimum threshold ($20,000)"}, svcerrors.Reasons(err))

	f.provider.AssertNotCalled(t, "Current")
	f.model.AssertNotCalled(t, "PredictProbability", mock.Anything)
	f.repo.AssertNotCalled(t, "AppendDecision", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishDecision", mock.Anything, mock.Anything)
}

func Test_ScoringAppService_Score_HighLoanRejected(t *testing.T) {
	f := newPipelineFixture(0.05)
	f.metrics.On("RecordRejection", 1).Return()

	req := validRequest()
	loan, income := 50000.0, 100000.0
	req.LoanAmnt = &loan
	req.AnnualInc = &income

	_, err := f.svc.Score(context.Background(), req, dto.RequestMeta{})

	require.Error(t, err)
	reasons := svcerrors.Reasons(err)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "exceeds maximum")
	assert.Contains(t, reasons[0], "$40,000")
}

func Test_ScoringAppService_Score_ModelUnavailable(t *testing.T) {
	provider := new(mocks.MockModelProvider)
	provider.On("Loaded").Return(false)
	metrics := new(mocks.MockDecisionMetrics)
	metrics.On("RecordModelUnavailable").Return()
	repo := new(mocks.MockDecisionRepository)

	svc := NewScoringAppService(provider, repo, nil, metrics, nil)

	// Model availability is checked before validation, so an invalid request still gets 503.
	req := validRequest()
	income := 1.0
	req.AnnualInc = &income

	_, err := svc.Score(context.Background(), req, dto.RequestMeta{})

	require.Error(t, err)
	assert.True(t, svcerrors.IsModelUnavailable(err))
	assert.False(t, svc.ModelLoaded())
	metrics.AssertExpectations(t)
	repo.AssertNotCalled(t, "AppendDecision", mock.Anything, mock.Anything)
}

func Test_ScoringAppService_Score_PersistenceFailureSwallowed(t *testing.T) {
	f := newPipelineFixture(0.05)
	f.repo.On("AppendDecision", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.publisher.On("PublishDecision", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.metrics.On("RecordPersistenceFailure", "repository").Return().Once()
	f.metrics.On("RecordPersistenceFailure", "audit").Return().Once()
	f.metrics.On("RecordDecision", models.RiskTierLow, false, mock.Anything).Return()

	resp, err := f.svc.Score(context.Background(), validRequest(), dto.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 647, resp.CreditScore)
	f.metrics.AssertExpectations(t)
}

func Test_ScoringAppService_Score_OptionalCollaborators(t *testing.T) {
	f := newPipelineFixture(0.5)
	svc := NewScoringAppService(f.provider, nil, nil, nil, nil)

	resp, err := svc.Score(context.Background(), validRequest(), dto.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, 500, resp.CreditScore)
	assert.Equal(t, "Medium", resp.RiskLevel)
}

func Test_ScoringAppService_Score_CappedRevolUtilPersisted(t *testing.T) {
	f := newPipelineFixture(0.2)
	f.repo.On("AppendDecision", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishDecision", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("RecordDecision", mock.Anything, mock.Anything, mock.Anything).Return()

	req := validRequest()
	util := 130.0
	req.RevolUtil = &util

	_, err := f.svc.Score(context.Background(), req, dto.RequestMeta{})
	require.NoError(t, err)

	capped := mock.MatchedBy(func(r *models.DecisionRecord) bool {
		return r.Applicant.RevolUtil == 100
	})
	f.repo.AssertCalled(t, "AppendDecision", mock.Anything, capped)
	f.publisher.AssertCalled(t, "PublishDecision", mock.Anything, capped)
}

func Test_ScoringAppService_Score_NilRequest(t *testing.T) {
	f := newPipelineFixture(0.2)

	_, err := f.svc.Score(context.Background(), nil, dto.RequestMeta{})

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 422, svcErr.HTTPStatus())
}

func Test_ScoringAppService_Score_ModelError(t *testing.T) {
	model := new(mocks.MockScoringModel)
	model.On("SelectedFeatures").Return([]string{models.FeatureDTI})
	model.On("TransformWoE", mock.Anything).Return(nil, errors.New("bin table corrupt"))
	provider := new(mocks.MockModelProvider)
	provider.On("Loaded").Return(true)
	provider.On("Current").Return(model, nil)
	repo := new(mocks.MockDecisionRepository)

	svc := NewScoringAppService(provider, repo, nil, nil, nil)
	_, err := svc.Score(context.Background(), validRequest(), dto.RequestMeta{})

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, 500, svcErr.HTTPStatus())
	repo.AssertNotCalled(t, "AppendDecision", mock.Anything, mock.Anything)
}
