package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

// neutralApplicant triggers no positive or negative factor.
func neutralApplicant() models.ApplicantRecord {
	a := validApplicant()
	a.CreditHistoryMonths = 40
	a.IntRate = 16
	a.DTI = 25
	a.RevolUtil = 50
	a.InqLast6Mths = 1
	return a
}

func TestGenerateExplanation(t *testing.T) {
	tests := []struct {
		name     string
		a        func() models.ApplicantRecord
		tier     models.RiskTier
		warnings []string
		want     string
	}{
		{
			name: "positives only, first three kept",
			a:    validApplicant,
			tier: models.RiskTierLow,
			want: "Low default risk; due to long credit history, favorable interest rate, low debt-to-income ratio.",
		},
		{
			name: "negatives only, first three kept",
			a:    highRiskApplicant,
			tier: models.RiskTierHigh,
			warnings: []string{
				service.WarningLoanToIncome,
				service.WarningInstallmentToIncome,
			},
			want: "High default risk; due to high interest rate indicates elevated risk profile, high credit utilization, elevated debt burden.",
		},
		{
			name: "positives and negatives, negatives capped at two",
			a: func() models.ApplicantRecord {
				a := validApplicant()
				a.IntRate = 22
				a.RevolUtil = 80
				a.DTI = 40
				return a
			},
			tier: models.RiskTierMedium,
			want: "Moderate default risk; due to long credit history, no recent credit inquiries; however, high interest rate indicates elevated risk profile, high credit utilization.",
		},
		{
			name: "no factors",
			a:    neutralApplicant,
			tier: models.RiskTierMedium,
			want: "Moderate default risk.",
		},
		{
			name:     "warning derived negative",
			a:        neutralApplicant,
			tier:     models.RiskTierHigh,
			warnings: []string{service.WarningRevolvingUtil, service.WarningInstallmentToIncome},
			want:     "High default risk; due to monthly payment burden is significant.",
		},
		{
			name: "established history and stable income",
			a: func() models.ApplicantRecord {
				a := neutralApplicant()
				a.CreditHistoryMonths = 60
				a.AnnualInc = 60000
				return a
			},
			tier: models.RiskTierLow,
			want: "Low default risk; due to established credit history, stable income.",
		},
		{
			name: "strong income with a loan warning",
			a: func() models.ApplicantRecord {
				a := neutralApplicant()
				a.AnnualInc = 150000
				return a
			},
			tier:     models.RiskTierHigh,
			warnings: []string{service.WarningLoanToIncome},
			want:     "High default risk; due to strong income; however, loan amount high relative to income.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.GenerateExplanation(tt.a(), tt.tier, tt.warnings)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateExplanation_AlwaysTerminated(t *testing.T) {
	applicants := []models.ApplicantRecord{validApplicant(), highRiskApplicant(), neutralApplicant()}
	for _, a := range applicants {
		for _, tier := range models.RiskTiers {
			got := service.GenerateExplanation(a, tier, nil)
			assert.NotEmpty(t, got)
			assert.True(t, strings.HasSuffix(got, "."))
			assert.False(t, strings.HasSuffix(got, ".."))
		}
	}
}

func TestGenerateExplanation_UsesUncappedUtilization(t *testing.T) {
	a := neutralApplicant()
	a.RevolUtil = 140

	got := service.GenerateExplanation(a, models.RiskTierHigh, nil)

	assert.Equal(t, "High default risk; due to high credit utilization.", got)
}
