package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

func TestApplyRiskOverride(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		prob       float64
		warnings   []string
		wantScore  int
		wantProb   float64
		wantTier   models.RiskTier
		overridden bool
	}{
		{"loan-to-income floors a good score", 600, 0.05, []string{service.WarningLoanToIncome}, 450, 0.70, models.RiskTierHigh, true},
		{"already bad outcome is kept", 400, 0.80, []string{service.WarningLoanToIncome}, 400, 0.80, models.RiskTierHigh, true},
		{"revolving utilization never triggers", 600, 0.05, []string{service.WarningRevolvingUtil}, 600, 0.05, models.RiskTierLow, false},
		{"installment trigger", 520, 0.3, []string{service.WarningInstallmentToIncome}, 450, 0.70, models.RiskTierHigh, true},
		{"dti trigger", 700, 0.01, []string{service.WarningDebtToIncome}, 450, 0.70, models.RiskTierHigh, true},
		{"history trigger", 440, 0.5, []string{service.WarningShortCreditHistory}, 440, 0.70, models.RiskTierHigh, true},
		{"several triggers clamp once", 650, 0.1, []string{
			service.WarningLoanToIncome,
			service.WarningInstallmentToIncome,
			service.WarningDebtToIncome,
			service.WarningShortCreditHistory,
		}, 450, 0.70, models.RiskTierHigh, true},
		{"no warnings", 500, 0.2, nil, 500, 0.2, models.RiskTierMedium, false},
		{"unknown warning text ignored", 600, 0.05, []string{"Loan-to-income ratio exceeds 50"}, 600, 0.05, models.RiskTierLow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ApplyRiskOverride(tt.score, tt.prob, tt.warnings)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantProb, got.Probability)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.overridden, got.Overridden)
		})
	}
}

func TestApplyRiskOverride_Idempotent(t *testing.T) {
	warnings := []string{service.WarningDebtToIncome}

	first := service.ApplyRiskOverride(450, 0.70, warnings)
	second := service.ApplyRiskOverride(first.Score, first.Probability, warnings)

	assert.Equal(t, 450, second.Score)
	assert.Equal(t, 0.70, second.Probability)
	assert.Equal(t, first.Tier, second.Tier)
}

func TestTierForScore(t *testing.T) {
	tests := map[int]models.RiskTier{
		900: models.RiskTierLow,
		580: models.RiskTierLow,
		579: models.RiskTierMedium,
		480: models.RiskTierMedium,
		479: models.RiskTierHigh,
		0:   models.RiskTierHigh,
	}
	for score, want := range tests {
		assert.Equal(t, want, service.TierForScore(score), "score %d", score)
	}
}
