package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskTier is the coarse risk band derived from the final score.
type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// RiskTiers lists all tiers from best to worst.
var RiskTiers = []RiskTier{RiskTierLow, RiskTierMedium, RiskTierHigh}

// Valid reports whether t is a known tier.
func (t RiskTier) Valid() bool {
	switch t {
	case RiskTierLow, RiskTierMedium, RiskTierHigh:
		return true
	}
	return false
}

// ValidationOutcome holds ordered hard errors and advisory warnings.
type ValidationOutcome struct {
	Errors   []string
	Warnings []string
}

// Rejected reports whether any hard error was raised.
func (o ValidationOutcome) Rejected() bool {
	return len(o.Errors) > 0
}

// ScoreResult is the model output before any override.
type ScoreResult struct {
	Score       int
	Probability float64
}

// OverrideResult is the score after business-rule overrides.
type OverrideResult struct {
	Score       int
	Probability float64
	Tier        RiskTier
	Overridden  bool
}

// Decision is the final, immutable outcome for one applicant.
type Decision struct {
	ID          uuid.UUID
	ApplicantID string
	Score       int
	Probability float64
	Tier        RiskTier
	Explanation string
	Warnings    []string
	Overridden  bool
	Latency     time.Duration
	DecidedAt   time.Time
}

// LatencyMillis returns the decision latency in fractional milliseconds.
func (d *Decision) LatencyMillis() float64 {
	return float64(d.Latency) / float64(time.Millisecond)
}

// DecisionRecord is what the persistence and audit collaborators receive.
type DecisionRecord struct {
	Decision  *Decision
	Applicant ApplicantRecord
	RequestIP string
}
