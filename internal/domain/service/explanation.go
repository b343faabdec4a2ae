package service

import (
	"strings"

	"github.com/turtacn/credscore/internal/domain/models"
)

// ================================================================================
// Explanation thresholds
// ================================================================================

const (
	longHistoryMonths        = 120
	establishedHistoryMonths = 60
	favorableRateBelow       = 14
	lowDTIBelow              = 20
	lowUtilizationBelow      = 30
	strongIncome             = 100000
	stableIncome             = 60000

	highRateFrom           = 20
	highUtilizationFrom    = 70
	elevatedDTIFrom        = 35
	manyInquiriesFrom      = 3
	limitedHistoryBelow    = 36
	subprimeGradeFrom      = 5
	maxPositivesReported   = 3
	maxNegativesWithPos    = 2
	maxNegativesStandalone = 3
)

var tierLeads = map[models.RiskTier]string{
	models.RiskTierLow:    "Low default risk",
	models.RiskTierMedium: "Moderate default risk",
	models.RiskTierHigh:   "High default risk",
}

// GenerateExplanation composes the human-readable reason for a decision.
//
// Positives are listed first (at most 3). When positives exist, up to 2 negatives follow
// after "however"; when none exist, up to 3 negatives become the reason.
// The applicant is read as submitted, without the model-input cap.
func GenerateExplanation(a models.ApplicantRecord, tier models.RiskTier, warnings []string) string {
	lead, ok := tierLeads[tier]
	if !ok {
		lead = tierLeads[models.RiskTierHigh]
	}
	parts := []string{lead}

	positives := positiveFactors(a)
	negatives := negativeFactors(a, warnings)

	if len(positives) > 0 {
		parts = append(parts, "due to "+strings.Join(firstN(positives, maxPositivesReported), ", "))
		if len(negatives) > 0 {
			parts = append(parts, "however, "+strings.Join(firstN(negatives, maxNegativesWithPos), ", "))
		}
	} else if len(negatives) > 0 {
		parts = append(parts, "due to "+strings.Join(firstN(negatives, maxNegativesStandalone), ", "))
	}

	return strings.Join(parts, "; ") + "."
}

func positiveFactors(a models.ApplicantRecord) []string {
	var out []string

	switch {
	case a.CreditHistoryMonths >= longHistoryMonths:
		out = append(out, "long credit history")
	case a.CreditHistoryMonths >= establishedHistoryMonths:
		out = append(out, "established credit history")
	}

	if a.IntRate < favorableRateBelow {
		out = append(out, "favorable interest rate")
	}
	if a.DTI < lowDTIBelow {
		out = append(out, "low debt-to-income ratio")
	}
	if a.RevolUtil < lowUtilizationBelow {
		out = append(out, "low credit utilization")
	}
	if a.InqLast6Mths == 0 {
		out = append(out, "no recent credit inquiries")
	}

	switch {
	case a.AnnualInc >= strongIncome:
		out = append(out, "strong income")
	case a.AnnualInc >= stableIncome:
		out = append(out, "stable income")
	}

	return out
}

func negativeFactors(a models.ApplicantRecord, warnings []string) []string {
	var out []string

	if a.IntRate >= highRateFrom {
		out = append(out, "high interest rate indicates elevated risk profile")
	}
	if a.RevolUtil >= highUtilizationFrom {
		out = append(out, "high credit utilization")
	}
	if a.DTI >= elevatedDTIFrom {
		out = append(out, "elevated debt burden")
	}
	if a.InqLast6Mths >= manyInquiriesFrom {
		out = append(out, "multiple recent credit inquiries")
	}
	if a.CreditHistoryMonths < limitedHistoryBelow {
		out = append(out, "limited credit history")
	}
	if a.GradeNumeric >= subprimeGradeFrom {
		out = append(out, "subprime credit grade")
	}

	// 警告派生的负面因素
	for _, w := range warnings {
		switch {
		case strings.Contains(w, "Loan-to-income"):
			out = append(out, "loan amount high relative to income")
		case strings.Contains(w, "Monthly payment exceeds"):
			out = append(out, "monthly payment burden is significant")
		}
	}

	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
