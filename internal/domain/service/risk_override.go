package service

import (
	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/constants"
)

// overrideTriggers are the warnings that floor the risk assessment.
// Revolving utilization is deliberately absent.
var overrideTriggers = map[string]struct{}{
	WarningLoanToIncome:        {},
	WarningInstallmentToIncome: {},
	WarningDebtToIncome:        {},
	WarningShortCreditHistory:  {},
}

// ApplyRiskOverride caps the score and floors the probability when a trigger warning is present,
// then assigns the tier from the final score. The clamp is one-sided and idempotent.
func ApplyRiskOverride(score int, probability float64, warnings []string) models.OverrideResult {
	res := models.OverrideResult{Score: score, Probability: probability}

	if hasOverrideTrigger(warnings) {
		if res.Score > constants.OverrideScoreCeiling {
			res.Score = constants.OverrideScoreCeiling
		}
		if res.Probability < constants.OverrideProbabilityFloor {
			res.Probability = constants.OverrideProbabilityFloor
		}
		res.Overridden = true
	}

	res.Tier = TierForScore(res.Score)
	return res
}

// TierForScore maps a final score to its risk tier. Lower bounds are inclusive.
func TierForScore(score int) models.RiskTier {
	switch {
	case score >= constants.LowRiskMinScore:
		return models.RiskTierLow
	case score >= constants.MediumRiskMinScore:
		return models.RiskTierMedium
	default:
		return models.RiskTierHigh
	}
}

func hasOverrideTrigger(warnings []string) bool {
	for _, w := range warnings {
		if _, ok := overrideTriggers[w]; ok {
			return true
		}
	}
	return false
}
