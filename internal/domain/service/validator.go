package service

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/constants"
)

// Advisory warnings. The override engine and the explanation generator match on these exact strings.
const (
	WarningLoanToIncome        = "Loan-to-income ratio exceeds 50%"
	WarningInstallmentToIncome = "Monthly payment exceeds 40% of monthly income"
	WarningDebtToIncome        = "Debt-to-income ratio exceeds 60%"
	WarningShortCreditHistory  = "Credit history less than 1 year"
	WarningRevolvingUtil       = "Revolving utilization exceeds 100%"
)

// ApplicantValidator applies the hard rejection rules and advisory warning rules.
type ApplicantValidator struct{}

// NewApplicantValidator creates a validator.
func NewApplicantValidator() *ApplicantValidator {
	return &ApplicantValidator{}
}

// Validate evaluates every rule independently and returns all errors and warnings in rule order.
func (v *ApplicantValidator) Validate(a models.ApplicantRecord) models.ValidationOutcome {
	var errs, warnings []string

	if a.AnnualInc < constants.MinAnnualIncome {
		errs = append(errs, fmt.Sprintf("Income $%s below minimum threshold ($20,000)", formatWholeDollars(a.AnnualInc)))
	}

	if a.LoanAmnt > constants.MaxLoanAmount {
		errs = append(errs, fmt.Sprintf("Loan amount $%s exceeds maximum ($40,000)", formatWholeDollars(a.LoanAmnt)))
	}

	if a.IntRate < constants.MinInterestRate || a.IntRate > constants.MaxInterestRate {
		errs = append(errs, fmt.Sprintf("Interest rate %s%% outside valid range (5-31%%)", formatDecimal(a.IntRate)))
	}

	if a.GradeNumeric < constants.MinGrade || a.GradeNumeric > constants.MaxGrade {
		errs = append(errs, fmt.Sprintf("Grade %s invalid (must be 1-7)", formatDecimal(a.GradeNumeric)))
	}

	for _, f := range a.Features() {
		if f.Value < 0 {
			errs = append(errs, f.Name+" cannot be negative")
		}
	}

	if a.LoanAmnt/(a.AnnualInc+1) > constants.MaxLoanToIncome {
		warnings = append(warnings, WarningLoanToIncome)
	}

	if a.InstallmentToIncome > constants.MaxInstallmentToIncome {
		warnings = append(warnings, WarningInstallmentToIncome)
	}

	if a.DTI > constants.MaxDTI {
		warnings = append(warnings, WarningDebtToIncome)
	}

	if a.CreditHistoryMonths < constants.MinCreditHistoryMonths {
		warnings = append(warnings, WarningShortCreditHistory)
	}

	if a.RevolUtil > constants.MaxRevolvingUtilization {
		warnings = append(warnings, WarningRevolvingUtil)
	}

	return models.ValidationOutcome{Errors: errs, Warnings: warnings}
}

// formatWholeDollars renders an amount rounded half-to-even with comma grouping, e.g. 15000 -> "15,000".
func formatWholeDollars(v float64) string {
	n, ok := new(big.Int).SetString(strconv.FormatFloat(v, 'f', 0, 64), 10)
	if !ok {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return humanize.BigComma(n)
}

// formatDecimal renders the shortest decimal form, always keeping one fractional digit, e.g. 3 -> "3.0".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
