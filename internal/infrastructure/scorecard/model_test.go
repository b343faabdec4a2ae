package scorecard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

func fixtureModel(t *testing.T) *Model {
	t.Helper()
	m, err := LoadModel(fixturePath)
	require.NoError(t, err)
	return m
}

func TestModel_TransformWoE_RightOpenBins(t *testing.T) {
	m := fixtureModel(t)

	got, err := m.TransformWoE(models.FeatureVector{
		{Name: models.FeatureDTI, Value: 9.99},
		{Name: models.FeatureDTI, Value: 10},
		{Name: models.FeatureDTI, Value: 1000},
		{Name: models.FeatureDTI, Value: math.NaN()},
	})

	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.2, -0.7, 0}, []float64{got[0].Value, got[1].Value, got[2].Value, got[3].Value})
	assert.Equal(t, models.FeatureDTI, got[0].Name)
}

func TestModel_TransformWoE_UnknownFeature(t *testing.T) {
	_, err := fixtureModel(t).TransformWoE(models.FeatureVector{{Name: "open_acc", Value: 1}})
	assert.Error(t, err)
}

func TestModel_PredictProbability(t *testing.T) {
	m := fixtureModel(t)

	p, err := m.PredictProbability(models.FeatureVector{{Name: models.FeatureDTI, Value: 0.4}})
	require.NoError(t, err)

	z := -1.7346 + -0.9*0.4
	assert.InDelta(t, 1/(1+math.Exp(-z)), p, 1e-12)
}

func TestModel_SelectedFeaturesIsACopy(t *testing.T) {
	m := fixtureModel(t)
	sf := m.SelectedFeatures()
	sf[0] = "mutated"
	assert.Equal(t, models.FeatureGradeNumeric, m.SelectedFeatures()[0])
}

func TestModel_ScoresThroughDomainScorer(t *testing.T) {
	m := fixtureModel(t)

	valid := models.ApplicantRecord{
		ApplicantID: "TEST001", GradeNumeric: 3, IntRate: 13.5, InqLast6Mths: 0, RevolUtil: 25,
		Installment: 350, InstallmentToIncome: 0.07, LoanToIncome: 0.30, DTI: 15, OpenAcc: 8,
		LoanAmnt: 15000, AnnualInc: 50000, CreditHistoryMonths: 120,
	}
	res, err := service.ScoreWithModel(m, valid)
	require.NoError(t, err)
	assert.Equal(t, 594, res.Score)
	assert.Equal(t, 0.04, res.Probability)

	highRisk := models.ApplicantRecord{
		ApplicantID: "TEST_HIGH_RISK", GradeNumeric: 5, IntRate: 22, InqLast6Mths: 4, RevolUtil: 85,
		Installment: 800, InstallmentToIncome: 0.45, LoanToIncome: 0.6, DTI: 65, OpenAcc: 12,
		LoanAmnt: 30000, AnnualInc: 50000, CreditHistoryMonths: 8,
	}
	res, err = service.ScoreWithModel(m, highRisk)
	require.NoError(t, err)
	assert.Equal(t, 426, res.Score)
	assert.Equal(t, 0.94, res.Probability)

	band := m.Artifact().Band()
	assert.GreaterOrEqual(t, res.Score, band.Min)
	assert.LessOrEqual(t, res.Score, band.Max)
}
