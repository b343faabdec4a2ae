package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/internal/domain/service"
)

func TestApplicantValidator_ValidApplicant(t *testing.T) {
	v := service.NewApplicantValidator()

	out := v.Validate(validApplicant())

	assert.False(t, out.Rejected())
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
}

func TestApplicantValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *models.ApplicantRecord)
		want   []string
	}{
		{
			name:   "income below minimum",
			mutate: func(a *models.ApplicantRecord) { a.AnnualInc = 15000 },
			want:   []string{"Income $15,000 below minimum threshold ($20,000)"},
		},
		{
			name: "loan above maximum",
			mutate: func(a *models.ApplicantRecord) {
				a.LoanAmnt = 50000
				a.AnnualInc = 100000
			},
			want: []string{"Loan amount $50,000 exceeds maximum ($40,000)"},
		},
		{
			name:   "loan beyond int64 keeps full grouping",
			mutate: func(a *models.ApplicantRecord) { a.LoanAmnt = 1e19 },
			want:   []string{"Loan amount $10,000,000,000,000,000,000 exceeds maximum ($40,000)"},
		},
		{
			name:   "income rounds half to even",
			mutate: func(a *models.ApplicantRecord) { a.AnnualInc = 15000.5 },
			want:   []string{"Income $15,000 below minimum threshold ($20,000)"},
		},
		{
			name:   "rate below range keeps one decimal",
			mutate: func(a *models.ApplicantRecord) { a.IntRate = 3 },
			want:   []string{"Interest rate 3.0% outside valid range (5-31%)"},
		},
		{
			name:   "rate above range",
			mutate: func(a *models.ApplicantRecord) { a.IntRate = 31.5 },
			want:   []string{"Interest rate 31.5% outside valid range (5-31%)"},
		},
		{
			name:   "grade out of range",
			mutate: func(a *models.ApplicantRecord) { a.GradeNumeric = 8 },
			want:   []string{"Grade 8.0 invalid (must be 1-7)"},
		},
		{
			name:   "negative field",
			mutate: func(a *models.ApplicantRecord) { a.DTI = -1 },
			want:   []string{"dti cannot be negative"},
		},
		{
			name: "all rules reported in order",
			mutate: func(a *models.ApplicantRecord) {
				a.AnnualInc = 19999.5
				a.LoanAmnt = 40000.5
				a.GradeNumeric = -1
				a.OpenAcc = -2
			},
			want: []string{
				"Income $20,000 below minimum threshold ($20,000)",
				"Loan amount $40,000 exceeds maximum ($40,000)",
				"Grade -1.0 invalid (must be 1-7)",
				"grade_numeric cannot be negative",
				"open_acc cannot be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplicant()
			tt.mutate(&a)

			out := service.NewApplicantValidator().Validate(a)

			require.True(t, out.Rejected())
			assert.Equal(t, tt.want, out.Errors)
		})
	}
}

func TestApplicantValidator_BoundariesAccepted(t *testing.T) {
	a := validApplicant()
	a.AnnualInc = 20000
	a.LoanAmnt = 8000
	a.IntRate = 31
	a.GradeNumeric = 7

	out := service.NewApplicantValidator().Validate(a)
	assert.Empty(t, out.Errors)

	a.IntRate = 5
	a.GradeNumeric = 1
	out = service.NewApplicantValidator().Validate(a)
	assert.Empty(t, out.Errors)
}

func TestApplicantValidator_LowIncomeAlsoWarns(t *testing.T) {
	a := validApplicant()
	a.AnnualInc = 15000

	out := service.NewApplicantValidator().Validate(a)

	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "below minimum threshold")
	assert.Contains(t, out.Errors[0], "$20,000")
	assert.Equal(t, []string{service.WarningLoanToIncome}, out.Warnings)
}

func TestApplicantValidator_Warnings(t *testing.T) {
	out := service.NewApplicantValidator().Validate(highRiskApplicant())

	assert.Empty(t, out.Errors)
	assert.Equal(t, []string{
		"Loan-to-income ratio exceeds 50%",
		"Monthly payment exceeds 40% of monthly income",
		"Debt-to-income ratio exceeds 60%",
		"Credit history less than 1 year",
	}, out.Warnings)
}

func TestApplicantValidator_RevolvingUtilizationWarning(t *testing.T) {
	a := validApplicant()
	a.RevolUtil = 120

	out := service.NewApplicantValidator().Validate(a)

	assert.Empty(t, out.Errors)
	assert.Equal(t, []string{service.WarningRevolvingUtil}, out.Warnings)
}

func TestApplicantValidator_ShortHistory(t *testing.T) {
	a := validApplicant()
	a.CreditHistoryMonths = 6

	out := service.NewApplicantValidator().Validate(a)

	assert.Empty(t, out.Errors)
	assert.Equal(t, []string{service.WarningShortCreditHistory}, out.Warnings)
}
